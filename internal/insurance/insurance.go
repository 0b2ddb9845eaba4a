package insurance

import (
	"log/slog"

	"insurer/internal/insurance/handler"
	"insurer/internal/insurance/service"
	catalogstore "insurer/internal/insurance/store/catalog"
	ledgerstore "insurer/internal/insurance/store/ledger"
)

// Company exposes the risk catalog and policy ledger operations.
type Company = service.Company

// Handler wires HTTP endpoints to the company.
type Handler = handler.Handler

// NewCompany constructs a company over in-memory stores, which may already
// hold seeded risks and policies.
func NewCompany(name string, catalog *catalogstore.InMemory, ledger *ledgerstore.InMemory, opts ...service.Option) (*Company, error) {
	return service.New(name, catalog, ledger, opts...)
}

// NewHandler constructs the HTTP handler for the company's routes.
func NewHandler(c *Company, logger *slog.Logger) *Handler {
	return handler.New(c, logger)
}
