// ABOUTME: Command-line client for the RentalBridge rental management backend
// ABOUTME: Handles login, properties, units, bills, payments, and dashboards

package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/rentalbridge/rentalbridge-go/internal/api"
	"github.com/rentalbridge/rentalbridge-go/internal/authstate"
	"github.com/rentalbridge/rentalbridge-go/internal/config"
	"github.com/rentalbridge/rentalbridge-go/internal/keyring"
	"github.com/rentalbridge/rentalbridge-go/internal/session"
	"github.com/rentalbridge/rentalbridge-go/internal/transport"
)

const banner = `
                 _        _ _          _     _
 _ __ ___ _ __ | |_ __ _| | |__  _ __(_) __| | __ _  ___
| '__/ _ \ '_ \| __/ _' | | '_ \| '__| |/ _' |/ _' |/ _ \
| | |  __/ | | | || (_| | | |_) | |  | | (_| | (_| |  __/
|_|  \___|_| |_|\__\__,_|_|_.__/|_|  |_|\__,_|\__, |\___|
                                              |___/
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		printUsage()
		return
	}

	app, err := newApp()
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
	defer app.close()

	ctx := context.Background()

	switch cmd {
	case "login":
		err = app.cmdLogin(ctx, args)
	case "register":
		err = app.cmdRegister(ctx, args)
	case "logout":
		err = app.cmdLogout(ctx)
	case "whoami":
		err = app.cmdWhoami(ctx)
	case "passwd":
		err = app.cmdPasswd(ctx)
	case "properties":
		err = app.cmdProperties(ctx, args)
	case "units":
		err = app.cmdUnits(ctx, args)
	case "contracts":
		err = app.cmdContracts(ctx, args)
	case "bills":
		err = app.cmdBills(ctx, args)
	case "pay":
		err = app.cmdPay(ctx, args)
	case "payments":
		err = app.cmdPayments(ctx, args)
	case "receipt":
		err = app.cmdReceipt(ctx, args)
	case "dashboard":
		err = app.cmdDashboard(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: rentalbridge <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  login --phone <phone>       Log in and store credentials")
	fmt.Println("  register --phone <phone>    Create an account (--role owner|tenant)")
	fmt.Println("  logout                      Log out and clear stored credentials")
	fmt.Println("  whoami                      Show the current identity and token state")
	fmt.Println("  passwd                      Change the account password")
	fmt.Println("  properties [list]           List properties (--search, --page)")
	fmt.Println("  properties get <id>         Show one property")
	fmt.Println("  properties delete <id>      Delete a property")
	fmt.Println("  units [list]                List units (--property, --available, --page)")
	fmt.Println("  contracts [list]            List rental contracts (--status)")
	fmt.Println("  bills [list]                List bills (--status, --page)")
	fmt.Println("  bills pending               List unpaid bills")
	fmt.Println("  pay --bill <id> --amount <n> --method <m>   Pay a bill")
	fmt.Println("  payments [list]             List payments (--page)")
	fmt.Println("  receipt <payment-id>        Download a payment receipt PDF")
	fmt.Println("  dashboard                   Show role-appropriate dashboard stats")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  RENTALBRIDGE_ENV            development (default) or production")
	fmt.Println("  RENTALBRIDGE_CONFIG         Config file path (default: ~/.config/rentalbridge/config.yaml)")
	fmt.Println("  RENTALBRIDGE_KEYRING_KEY    Hex-encoded 32-byte keyring sealing key")
	fmt.Println()
	yellow.Println("Examples:")
	fmt.Println("  rentalbridge login --phone +8801711111111")
	fmt.Println("  rentalbridge bills pending")
	fmt.Println("  rentalbridge pay --bill 42 --amount 15000 --method bkash")
	fmt.Println()
}

// printError renders API errors with their field detail when present.
func printError(err error) {
	var apiErr *transport.APIError
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		color.Red("Error: %s\n", apiErr.Message)
		for field, msgs := range apiErr.Fields {
			for _, msg := range msgs {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
			}
		}
		return
	}
	color.Red("Error: %v\n", err)
}

// app wires the full client stack for one command invocation.
type app struct {
	cfg        *config.Config
	store      *keyring.SQLiteStore
	sess       *session.Manager
	client     *api.Client
	controller *authstate.Controller
}

func newApp() (*app, error) {
	cfgPath := os.Getenv("RENTALBRIDGE_CONFIG")
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}

	var cfg *config.Config
	if cfgPath != "" {
		if _, err := os.Stat(cfgPath); err == nil {
			loaded, err := config.Load(cfgPath)
			if err != nil {
				return nil, fmt.Errorf("loading config: %w", err)
			}
			cfg = loaded
		}
	}
	if cfg == nil {
		cfg = config.Default()
	}

	logger := setupLogger(cfg.Logging)

	keyHex, err := sealingKey(cfg)
	if err != nil {
		return nil, err
	}

	store, err := keyring.NewSQLiteStore(cfg.Keyring.Path, keyHex, logger)
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}

	tp := transport.NewClient(cfg.API.BaseURL, store, cfg.API.RequestTimeout, logger)
	sess := session.NewManager(tp, store, logger)
	client := api.NewClient(sess)
	controller := authstate.NewController(client, store, sess, logger)

	return &app{
		cfg:        cfg,
		store:      store,
		sess:       sess,
		client:     client,
		controller: controller,
	}, nil
}

func (a *app) close() {
	a.controller.Close()
	a.store.Close()
}

// requireAuth restores the stored session and fails if nobody is logged in.
func (a *app) requireAuth(ctx context.Context) error {
	if err := a.controller.Bootstrap(ctx); err != nil {
		return err
	}
	if !a.controller.IsAuthenticated(ctx) {
		return fmt.Errorf("not logged in (run: rentalbridge login --phone <phone>)")
	}
	return nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

// sealingKey resolves the keyring sealing key: config value first, then a
// generated key file next to the keyring database.
func sealingKey(cfg *config.Config) (string, error) {
	if cfg.Keyring.Key != "" {
		return cfg.Keyring.Key, nil
	}

	keyPath := filepath.Join(filepath.Dir(cfg.Keyring.Path), "keyring.key")
	if data, err := os.ReadFile(keyPath); err == nil {
		return strings.TrimSpace(string(data)), nil
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating sealing key: %w", err)
	}
	keyHex := hex.EncodeToString(raw)

	if err := os.MkdirAll(filepath.Dir(keyPath), 0o700); err != nil {
		return "", fmt.Errorf("creating keyring directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(keyHex+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("writing sealing key: %w", err)
	}

	return keyHex, nil
}

// promptLine reads one line from stdin with a prompt.
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("no input")
	}
	return strings.TrimSpace(scanner.Text()), nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	var phone, password string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--phone", "-p":
			if i+1 < len(args) {
				phone = args[i+1]
				i++
			}
		case "--password":
			if i+1 < len(args) {
				password = args[i+1]
				i++
			}
		}
	}

	var err error
	if phone == "" {
		if phone, err = promptLine("Phone: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = promptLine("Password: "); err != nil {
			return err
		}
	}

	user, err := a.controller.Login(ctx, phone, password)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Logged in as %s (%s)\n", user.Phone, user.Role)
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	var req api.RegisterRequest
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--phone", "-p":
			if i+1 < len(args) {
				req.Phone = args[i+1]
				i++
			}
		case "--password":
			if i+1 < len(args) {
				req.Password = args[i+1]
				i++
			}
		case "--email", "-e":
			if i+1 < len(args) {
				req.Email = args[i+1]
				i++
			}
		case "--role", "-r":
			if i+1 < len(args) {
				req.Role = api.Role(args[i+1])
				i++
			}
		}
	}

	var err error
	if req.Phone == "" {
		if req.Phone, err = promptLine("Phone: "); err != nil {
			return err
		}
	}
	if req.Password == "" {
		if req.Password, err = promptLine("Password: "); err != nil {
			return err
		}
	}

	user, err := a.controller.Register(ctx, req)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Registered %s (%s)\n", user.Phone, user.Role)
	return nil
}

func (a *app) cmdLogout(ctx context.Context) error {
	if err := a.controller.Bootstrap(ctx); err != nil {
		return err
	}
	a.controller.Logout(ctx)
	color.New(color.FgGreen).Println("✓ Logged out")
	return nil
}

func (a *app) cmdWhoami(ctx context.Context) error {
	if err := a.requireAuth(ctx); err != nil {
		return err
	}
	user := a.controller.CurrentUser()

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Identity")
	cyan.Println("  --------")
	fmt.Printf("  ID:      %d\n", user.ID)
	fmt.Printf("  Phone:   %s\n", user.Phone)
	if user.Email != "" {
		fmt.Printf("  Email:   %s\n", user.Email)
	}
	fmt.Printf("  Role:    %s\n", user.Role)

	if access, ok := a.store.Get(ctx, keyring.KindAccess); ok {
		if info, err := session.InspectAccessToken(access); err == nil {
			status := "valid"
			if info.Expired() {
				status = "expired (refreshed on next request)"
			}
			fmt.Printf("  Token:   %s, expires %s\n", status, info.ExpiresAt.Format(time.RFC3339))
		}
	}
	fmt.Println()
	return nil
}

func (a *app) cmdPasswd(ctx context.Context) error {
	if err := a.requireAuth(ctx); err != nil {
		return err
	}

	oldPass, err := promptLine("Current password: ")
	if err != nil {
		return err
	}
	newPass, err := promptLine("New password: ")
	if err != nil {
		return err
	}

	if err := a.client.ChangePassword(ctx, api.PasswordChange{
		OldPassword: oldPass,
		NewPassword: newPass,
	}); err != nil {
		return err
	}

	color.New(color.FgGreen).Println("✓ Password changed")
	return nil
}

func (a *app) cmdProperties(ctx context.Context, args []string) error {
	if err := a.requireAuth(ctx); err != nil {
		return err
	}

	subcmd := "list"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "list", "ls":
		return a.propertiesList(ctx, args)
	case "get", "show":
		id, err := idArg(args, "properties get <id>")
		if err != nil {
			return err
		}
		return a.propertyShow(ctx, id)
	case "delete", "rm":
		id, err := idArg(args, "properties delete <id>")
		if err != nil {
			return err
		}
		if err := a.client.DeleteProperty(ctx, id); err != nil {
			return err
		}
		color.New(color.FgGreen).Printf("✓ Deleted property %d\n", id)
		return nil
	default:
		return fmt.Errorf("unknown properties subcommand: %s (use list, get, delete)", subcmd)
	}
}

func (a *app) propertiesList(ctx context.Context, args []string) error {
	var opts api.PropertyListOptions
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--search", "-s":
			if i+1 < len(args) {
				opts.Search = args[i+1]
				i++
			}
		case "--page":
			if i+1 < len(args) {
				opts.Page, _ = strconv.Atoi(args[i+1])
				i++
			}
		}
	}

	page, err := a.client.ListProperties(ctx, opts)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Printf("  Properties (%d total)\n", page.Count)
	cyan.Println("  ----------")

	if len(page.Results) == 0 {
		fmt.Println("  (no properties)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tHOUSE\tAREA\tDISTRICT\tFLOORS\tLIFT")
	fmt.Fprintln(w, "  --\t-----\t----\t--------\t------\t----")
	for _, p := range page.Results {
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%d\t%s\n",
			p.ID, truncate(p.HouseName, 24), truncate(p.Location.AreaName, 20),
			p.Location.District, p.TotalFloors, yesNo(p.HasLift))
	}
	w.Flush()
	printPageHint(page.Next)
	fmt.Println()
	return nil
}

func (a *app) propertyShow(ctx context.Context, id int64) error {
	p, err := a.client.GetProperty(ctx, id)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Printf("  %s\n", p.HouseName)
	cyan.Println("  " + strings.Repeat("-", len(p.HouseName)))
	fmt.Printf("  Location:  %s, %s, %s\n", p.Location.AreaName, p.Location.District, p.Location.Division)
	fmt.Printf("  Floors:    %d\n", p.TotalFloors)
	if p.AgeOfBuilding > 0 {
		fmt.Printf("  Age:       %d years\n", p.AgeOfBuilding)
	}
	fmt.Printf("  Lift:      %s\n", yesNo(p.HasLift))
	fmt.Printf("  Guard:     %s\n", yesNo(p.HasSecurityGuard))
	fmt.Printf("  Parking:   %s\n", yesNo(p.HasParking))
	fmt.Println()
	return nil
}

func (a *app) cmdUnits(ctx context.Context, args []string) error {
	if err := a.requireAuth(ctx); err != nil {
		return err
	}

	if len(args) > 0 && (args[0] == "list" || args[0] == "ls") {
		args = args[1:]
	}

	var opts api.UnitListOptions
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--property", "-p":
			if i+1 < len(args) {
				opts.Property, _ = strconv.ParseInt(args[i+1], 10, 64)
				i++
			}
		case "--available", "-a":
			avail := true
			opts.Available = &avail
		case "--page":
			if i+1 < len(args) {
				opts.Page, _ = strconv.Atoi(args[i+1])
				i++
			}
		}
	}

	page, err := a.client.ListUnits(ctx, opts)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Printf("  Units (%d total)\n", page.Count)
	cyan.Println("  -----")

	if len(page.Results) == 0 {
		fmt.Println("  (no units)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tPROPERTY\tUNIT\tFLOOR\tBED\tBATH\tRENT\tAVAILABLE")
	fmt.Fprintln(w, "  --\t--------\t----\t-----\t---\t----\t----\t---------")
	for _, u := range page.Results {
		fmt.Fprintf(w, "  %d\t%d\t%s\t%d\t%d\t%d\t%.0f\t%s\n",
			u.ID, u.Property, u.UnitNumber, u.FloorNumber, u.Bedrooms, u.Bathrooms,
			u.RentAmount, yesNo(u.IsAvailable))
	}
	w.Flush()
	printPageHint(page.Next)
	fmt.Println()
	return nil
}

func (a *app) cmdContracts(ctx context.Context, args []string) error {
	if err := a.requireAuth(ctx); err != nil {
		return err
	}

	if len(args) > 0 && (args[0] == "list" || args[0] == "ls") {
		args = args[1:]
	}

	var opts api.ContractListOptions
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--status", "-s":
			if i+1 < len(args) {
				opts.Status = args[i+1]
				i++
			}
		case "--page":
			if i+1 < len(args) {
				opts.Page, _ = strconv.Atoi(args[i+1])
				i++
			}
		}
	}

	page, err := a.client.ListContracts(ctx, opts)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Printf("  Contracts (%d total)\n", page.Count)
	cyan.Println("  ---------")

	if len(page.Results) == 0 {
		fmt.Println("  (no contracts)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tUNIT\tSTART\tEND\tRENT\tDEPOSIT\tSTATUS")
	fmt.Fprintln(w, "  --\t----\t-----\t---\t----\t-------\t------")
	for _, c := range page.Results {
		fmt.Fprintf(w, "  %d\t%d\t%s\t%s\t%.0f\t%.0f\t%s\n",
			c.ID, c.Unit, c.StartDate, c.EndDate, c.RentAmount, c.SecurityDeposit, c.Status)
	}
	w.Flush()
	printPageHint(page.Next)
	fmt.Println()
	return nil
}

func (a *app) cmdBills(ctx context.Context, args []string) error {
	if err := a.requireAuth(ctx); err != nil {
		return err
	}

	subcmd := "list"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "pending":
		return a.billsPending(ctx)
	case "list", "ls":
	default:
		return fmt.Errorf("unknown bills subcommand: %s (use list, pending)", subcmd)
	}

	var opts api.BillListOptions
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--status", "-s":
			if i+1 < len(args) {
				opts.Status = args[i+1]
				i++
			}
		case "--page":
			if i+1 < len(args) {
				opts.Page, _ = strconv.Atoi(args[i+1])
				i++
			}
		}
	}

	page, err := a.client.ListBills(ctx, opts)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Printf("  Bills (%d total)\n", page.Count)
	cyan.Println("  -----")

	if len(page.Results) == 0 {
		fmt.Println("  (no bills)")
		fmt.Println()
		return nil
	}

	printBillTable(page.Results)
	printPageHint(page.Next)
	fmt.Println()
	return nil
}

func (a *app) billsPending(ctx context.Context) error {
	bills, err := a.client.PendingBills(ctx)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Pending Bills")
	cyan.Println("  -------------")

	if len(bills) == 0 {
		color.New(color.FgGreen).Println("  ✓ nothing due")
		fmt.Println()
		return nil
	}

	printBillTable(bills)
	fmt.Println()
	return nil
}

func printBillTable(bills []api.Bill) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tCONTRACT\tPERIOD\tTOTAL\tDUE\tSTATUS")
	fmt.Fprintln(w, "  --\t--------\t------\t-----\t---\t------")
	for _, b := range bills {
		period := b.BillingPeriodStart + " to " + b.BillingPeriodEnd
		fmt.Fprintf(w, "  %d\t%d\t%s\t%.0f\t%s\t%s\n",
			b.ID, b.Contract, period, b.TotalAmount, b.DueDate, b.Status)
	}
	w.Flush()
}

func (a *app) cmdPay(ctx context.Context, args []string) error {
	if err := a.requireAuth(ctx); err != nil {
		return err
	}

	var req api.PaymentRequest
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--bill", "-b":
			if i+1 < len(args) {
				req.Bill, _ = strconv.ParseInt(args[i+1], 10, 64)
				i++
			}
		case "--amount", "-a":
			if i+1 < len(args) {
				req.Amount, _ = strconv.ParseFloat(args[i+1], 64)
				i++
			}
		case "--method", "-m":
			if i+1 < len(args) {
				req.PaymentMethod = args[i+1]
				i++
			}
		case "--txn", "-t":
			if i+1 < len(args) {
				req.TransactionID = args[i+1]
				i++
			}
		}
	}

	if req.Bill == 0 || req.Amount == 0 || req.PaymentMethod == "" {
		return fmt.Errorf("usage: pay --bill <id> --amount <n> --method <bkash|nagad|rocket|bank_transfer|cash> [--txn <id>]")
	}

	payment, err := a.client.CreatePayment(ctx, req)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Payment %d recorded\n", payment.ID)
	fmt.Printf("  Bill:    %d\n", payment.Bill)
	fmt.Printf("  Amount:  %.2f\n", payment.Amount)
	fmt.Printf("  Method:  %s\n", payment.PaymentMethod)
	fmt.Printf("  Status:  %s\n", payment.Status)
	return nil
}

func (a *app) cmdPayments(ctx context.Context, args []string) error {
	if err := a.requireAuth(ctx); err != nil {
		return err
	}

	if len(args) > 0 && (args[0] == "list" || args[0] == "ls") {
		args = args[1:]
	}

	pageNum := 0
	for i := 0; i < len(args); i++ {
		if args[i] == "--page" && i+1 < len(args) {
			pageNum, _ = strconv.Atoi(args[i+1])
			i++
		}
	}

	page, err := a.client.ListPayments(ctx, pageNum)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Printf("  Payments (%d total)\n", page.Count)
	cyan.Println("  --------")

	if len(page.Results) == 0 {
		fmt.Println("  (no payments)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tBILL\tAMOUNT\tMETHOD\tDATE\tSTATUS")
	fmt.Fprintln(w, "  --\t----\t------\t------\t----\t------")
	for _, p := range page.Results {
		fmt.Fprintf(w, "  %d\t%d\t%.2f\t%s\t%s\t%s\n",
			p.ID, p.Bill, p.Amount, p.PaymentMethod, p.PaymentDate, p.Status)
	}
	w.Flush()
	printPageHint(page.Next)
	fmt.Println()
	return nil
}

func (a *app) cmdReceipt(ctx context.Context, args []string) error {
	if err := a.requireAuth(ctx); err != nil {
		return err
	}

	id, err := idArg(args, "receipt <payment-id>")
	if err != nil {
		return err
	}

	data, err := a.client.DownloadReceipt(ctx, id)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("receipt-%d.pdf", id)
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("writing receipt: %w", err)
	}

	color.New(color.FgGreen).Printf("✓ Saved %s (%d bytes)\n", name, len(data))
	return nil
}

func (a *app) cmdDashboard(ctx context.Context) error {
	if err := a.requireAuth(ctx); err != nil {
		return err
	}

	if a.controller.CurrentUser().Role == api.RoleOwner {
		return a.ownerDashboard(ctx)
	}
	return a.tenantDashboard(ctx)
}

func (a *app) ownerDashboard(ctx context.Context) error {
	stats, err := a.client.OwnerDashboard(ctx)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)
	fmt.Println()
	cyan.Println("  Portfolio")
	cyan.Println("  ---------")
	fmt.Printf("  Properties:   %d\n", stats.TotalProperties)
	fmt.Printf("  Units:        %d (%d occupied, %d vacant)\n",
		stats.TotalUnits, stats.OccupiedUnits, stats.VacantUnits)
	fmt.Printf("  Tenants:      %d\n", stats.TotalTenants)
	if stats.PendingRentCount > 0 {
		yellow.Printf("  Pending rent: %.2f across %d bills\n",
			stats.PendingRentAmount, stats.PendingRentCount)
	} else {
		fmt.Println("  Pending rent: none")
	}
	fmt.Println()
	return nil
}

func (a *app) tenantDashboard(ctx context.Context) error {
	stats, err := a.client.TenantDashboard(ctx)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)
	fmt.Println()
	cyan.Println("  Rental")
	cyan.Println("  ------")

	if c := stats.CurrentContract; c != nil {
		fmt.Printf("  Contract:     #%d, %s to %s, rent %.2f\n",
			c.ID, c.StartDate, c.EndDate, c.RentAmount)
	} else {
		fmt.Println("  Contract:     (none active)")
	}
	if p := stats.NextPayment; p != nil {
		yellow.Printf("  Next payment: %.2f due %s (%d days)\n",
			p.Amount, p.DueDate, p.DaysRemaining)
	}
	fmt.Printf("  Total paid:   %.2f\n", stats.TotalPaid)
	if lp := stats.LastPayment; lp != nil {
		fmt.Printf("  Last payment: %.2f via %s on %s\n",
			lp.Amount, lp.PaymentMethod, lp.PaymentDate)
	}
	fmt.Println()
	return nil
}

func idArg(args []string, usage string) (int64, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func printPageHint(next *string) {
	if next != nil {
		fmt.Println("  (more results: use --page)")
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
