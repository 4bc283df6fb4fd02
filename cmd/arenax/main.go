package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"arenax-client/internal/account"
	"arenax-client/internal/checkout"
	"arenax-client/internal/config"
	"arenax-client/internal/gateway"
	"arenax-client/internal/logger"
	"arenax-client/internal/notify"
	"arenax-client/internal/payment"
	"arenax-client/internal/session"

	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	sess := session.New(cfg.SessionFile)
	api := gateway.NewClient(cfg.BaseURL, sess)
	accounts := account.NewService(api, sess)
	widget := checkout.NewInteractive(cfg.CheckoutScriptURL, os.Stdin, os.Stdout)
	payments := payment.NewService(api, widget, notify.NewLog())

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	var err error
	switch os.Args[1] {
	case "login":
		err = runLogin(ctx, accounts, os.Args[2:])
	case "register":
		err = runRegister(ctx, accounts, os.Args[2:])
	case "logout":
		accounts.Logout()
		fmt.Println("Logged out.")
	case "whoami":
		err = runWhoami(sess)
	case "payments":
		err = runPayments(ctx, payments)
	case "pay":
		err = runPay(ctx, payments, os.Args[2:])
	case "dashboard":
		err = runDashboard(ctx, accounts, payments)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: arenax <command>

commands:
  login      -email -password   authenticate and store the session token
  register   -name -email -password
  logout                        drop the stored session token
  whoami                        show the current session
  payments                      list my payment records
  pay <payment-id>              run the checkout flow for a pending payment
  dashboard                     profile and payments in one view`)
}

func runLogin(ctx context.Context, accounts *account.Service, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := accounts.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Welcome back, %s.\n", user.Name)
	return nil
}

func runRegister(ctx context.Context, accounts *account.Service, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := accounts.Register(ctx, *name, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Welcome, %s.\n", user.Name)
	return nil
}

func runWhoami(sess *session.Store) error {
	if sess.Token() == "" {
		fmt.Println("Not logged in.")
		return nil
	}

	claims, ok := sess.Claims()
	if !ok {
		fmt.Println("Logged in (opaque token).")
		return nil
	}

	fmt.Printf("%s (%s)\n", claims.Email, claims.Role)
	if sess.Expired() {
		fmt.Println("Session expired, log in again.")
	}
	return nil
}

func runPayments(ctx context.Context, payments *payment.Service) error {
	records, err := payments.MyPayments(ctx)
	if err != nil {
		return err
	}
	printPayments(records)
	return nil
}

func runPay(ctx context.Context, payments *payment.Service, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("pay: payment id required")
	}
	paymentID := args[0]

	records, err := payments.MyPayments(ctx)
	if err != nil {
		return err
	}

	var target *payment.Payment
	for i := range records {
		if records[i].ID == paymentID {
			target = &records[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("pay: no payment record %q", paymentID)
	}
	if target.Status == payment.StatusSuccess {
		fmt.Println("Already paid.")
		return nil
	}

	payments.OnConfirmed = func(ctx context.Context) {
		if refreshed, err := payments.MyPayments(ctx); err == nil {
			printPayments(refreshed)
		}
	}
	payments.OnTransition = func(id string, st payment.State) {
		fmt.Printf("[%s] %s\n", id, st)
	}

	_, err = payments.Pay(ctx, *target)
	return err
}

func runDashboard(ctx context.Context, accounts *account.Service, payments *payment.Service) error {
	var (
		user    account.User
		records []payment.Payment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = accounts.Me(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = payments.MyPayments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("%s <%s>\n\n", user.Name, user.Email)
	printPayments(records)
	return nil
}

func printPayments(records []payment.Payment) {
	if len(records) == 0 {
		fmt.Println("No payments.")
		return
	}
	for _, p := range records {
		fmt.Printf("%-26s %10.2f  %-10s %s\n", p.ID, p.Amount, p.Gateway, p.Status)
	}
}
