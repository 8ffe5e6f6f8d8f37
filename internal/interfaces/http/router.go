package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrolanc/stocksync/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	DispatchUC    *usecase.DispatchUseCase
	ReconcileUC   *usecase.ReconcileUseCase
	ContactSyncUC *usecase.ContactSyncUseCase
	StockLookupUC *usecase.StockLookupUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Sincronización de stock
	stockSync := NewStockSyncHandler(deps.DispatchUC)
	api.Post("/stock-sync", stockSync.Sync)

	// Consulta de stock y diagnóstico del catálogo
	lookup := NewStockLookupHandler(deps.StockLookupUC)
	api.Post("/get-stock", lookup.GetStock)
	debug := api.Group("/unas/debug")
	debug.Get("/product", lookup.DebugProduct)
	debug.Get("/qty-paths", lookup.DebugQtyPaths)

	// Conciliación almacén ↔ webshop
	reconcile := NewReconcileHandler(deps.ReconcileUC)
	api.Post("/reconcile", reconcile.Reconcile)
	api.Post("/reconcile/export", reconcile.Export)

	// Conciliación de contactos
	contacts := NewContactsHandler(deps.ContactSyncUC)
	api.Post("/contacts/reconcile", contacts.Reconcile)
}
