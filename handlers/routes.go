package handlers

import (
	"github.com/gin-gonic/gin"

	"roxtor-ops/access"
	"roxtor-ops/middleware"
)

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/live", h.LiveHandler)
	r.POST("/unlock", h.UnlockHandler)
	r.POST("/unlock/master", h.UnlockMasterHandler)
	r.POST("/login/staff", h.LoginStaffHandler)
	r.POST("/lock", h.LockHandler)
	r.GET("/auth/me", h.AuthMeHandler)

	general := r.Group("")
	general.Use(middleware.RequireTier(access.General))
	{
		general.GET("/settings", h.GetSettingsHandler)

		orders := general.Group("/orders", middleware.RequireTab(access.TabOrders))
		orders.GET("", h.GetOrdersHandler)
		orders.POST("", h.CreateOrderHandler)
		orders.GET("/:id", h.GetOrderHandler)
		orders.POST("/:id/payments", h.RegisterPaymentHandler)
		orders.PUT("/:id/assignee", h.ReassignOrderHandler)
		orders.PUT("/:id/status", h.AdvanceStatusHandler)
		orders.GET("/:id/document", h.OrderDocumentHandler)
		orders.GET("/:id/share", h.OrderShareHandler)

		staff := general.Group("/staff", middleware.RequireTab(access.TabStaff))
		staff.GET("", h.GetStaffHandler)
		staff.POST("", h.AddStaffHandler)
		staff.DELETE("/:id", h.RemoveStaffHandler)
		staff.GET("/:id/history", h.StaffHistoryHandler)

		general.GET("/rate", h.GetRateHandler)
		general.PUT("/rate", h.SetRateHandler)
		general.POST("/rate/refresh", h.RefreshRateHandler)

		catalog := general.Group("/catalog", middleware.RequireTab(access.TabCatalog))
		catalog.GET("", h.GetCatalogHandler)
		catalog.POST("", h.CreateProductHandler)
		catalog.PUT("/:id", h.UpdateProductHandler)
		catalog.DELETE("/:id", h.DeleteProductHandler)
		catalog.POST("/import", h.ImportCatalogHandler)

		leads := general.Group("/leads", middleware.RequireTab(access.TabRadar))
		leads.GET("", h.GetLeadsHandler)
		leads.POST("", h.AnalyzeLeadHandler)
		leads.DELETE("/:id", h.DeleteLeadHandler)
		leads.POST("/:id/speak", h.SpeakLeadHandler)
	}

	management := r.Group("")
	management.Use(middleware.RequireTier(access.Management))
	{
		management.PUT("/stock/:id", h.SetStockHandler)

		management.GET("/reports", h.ReportHandler)
		management.GET("/reports/document", h.ReportDocumentHandler)
		management.GET("/reports/share", h.ReportShareHandler)
		management.GET("/reports/xlsx", h.ReportXLSXHandler)

		management.PUT("/settings/company", h.UpdateCompanyHandler)
		management.PUT("/settings/pins", h.ChangePINsHandler)
		management.PUT("/settings/tone", h.SetToneHandler)
		management.POST("/settings/branches", h.UpsertBranchHandler)
		management.PUT("/settings/branches/:id", h.UpsertBranchHandler)

		management.GET("/backup", h.ExportBackupHandler)
		management.POST("/backup", h.ImportBackupHandler)
		management.GET("/backup/blob", h.ExportBlobHandler)
		management.POST("/backup/blob", h.ImportBlobHandler)
		management.GET("/backup/orders.csv", h.ExportCSVHandler)
	}
}
