package services

// ServiceContainer holds instances of all the application services.
type ServiceContainer struct {
	Ledger      LedgerSvc
	Book        BookSvc
	Audit       AuditSvc
	Idempotency IdempotencySvc
	Settlement  SettlementSvc
	Trigger     TriggerSvc
	Charge      ChargeSvc
	Reporting   ReportingSvc
}
