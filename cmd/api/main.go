package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "invoice-approval-service/internal/adapter/http"
	"invoice-approval-service/internal/adapter/middleware"
	"invoice-approval-service/internal/adapter/repository/mysql"
	"invoice-approval-service/internal/config"
	auditDomain "invoice-approval-service/internal/domain/audit"
	"invoice-approval-service/internal/domain/counter"
	invoiceDomain "invoice-approval-service/internal/domain/invoice"
	"invoice-approval-service/internal/infrastructure/cache"
	"invoice-approval-service/internal/infrastructure/db"
	"invoice-approval-service/internal/notify"
	auditUC "invoice-approval-service/internal/usecase/audit"
	invoiceUC "invoice-approval-service/internal/usecase/invoice"
	"invoice-approval-service/internal/usecase/sequence"
)

func main() {
	_ = godotenv.Load() // .env is optional outside local dev

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := gdb.AutoMigrate(
		&invoiceDomain.Invoice{},
		&invoiceDomain.ApprovalEvent{},
		&counter.Counter{},
		&auditDomain.Entry{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	invoices := mysql.NewInvoiceRepository(gdb)
	counters := mysql.NewCounterRepository(gdb)
	audits := mysql.NewAuditRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	allocator := sequence.NewAllocator(counters)
	recorder := auditUC.NewRecorder(audits)
	sender := notify.NewLogSender()

	uc := invoiceUC.NewUsecase(invoices, uow, allocator, recorder, sender, cfg.InvoiceIDPrefix, cfg.InvoiceIDPadding)

	h := httpadp.NewHandler()
	invH := httpadp.NewInvoiceHandler(uc)
	apprH := httpadp.NewApprovalHandler(uc)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	idemp := middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	// routes
	e.GET("/health", h.Health)
	e.POST("/invoices", invH.Submit, idemp)
	e.GET("/invoices", invH.ListMine)
	e.GET("/invoices/:invoice_id", invH.Get)
	e.GET("/invoices/:invoice_id/history", invH.History)
	e.GET("/invoices/:invoice_id/audit", invH.AuditTrail)
	e.POST("/invoices/:invoice_id/approve", apprH.Approve)
	e.POST("/invoices/:invoice_id/reject", apprH.Reject)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
