package routes

import (
	"compsuite/cache"
	"compsuite/commission"
	memberctl "compsuite/controllers/member"
	paymentctl "compsuite/controllers/payment"
	walletctl "compsuite/controllers/wallet"
	"compsuite/middlewares"
	"compsuite/network"
	"compsuite/wallet"

	"github.com/gofiber/fiber/v2"
)

type Deps struct {
	Network    *network.Network
	Engine     *commission.Engine
	Ledger     *commission.Ledger
	Aggregator *wallet.Aggregator
	Cache      *cache.BalanceCache
}

func Setup(app *fiber.App, d Deps) {
	// Trigger ingestion from the payment subsystem.
	payroutes := app.Group("/payment", middlewares.PartnerAuth())
	payroutes.Post("/verified", paymentctl.Verified(d.Engine))

	// Onboarding and mutation hooks.
	memberroutes := app.Group("/member", middlewares.PartnerAuth())
	memberroutes.Post("/register", memberctl.RegisterMember(d.Network))
	memberroutes.Post("/deposit", memberctl.Deposit(d.Cache))
	memberroutes.Post("/withdraw", memberctl.Withdraw(d.Aggregator, d.Cache))

	// Query API.
	walletroutes := app.Group("/wallet")
	walletroutes.Get("/balance/:code", walletctl.CheckBalance(d.Aggregator, d.Cache))
	walletroutes.Get("/commissions/:code", walletctl.ListCommissions(d.Ledger))
}
