package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"expense-ledger/internal/config"
	"expense-ledger/internal/export"
	"expense-ledger/internal/logging"
	"expense-ledger/internal/models"
	"expense-ledger/internal/prompt"
	"expense-ledger/internal/storage"
	"expense-ledger/internal/summary"
	"expense-ledger/internal/tracker"
)

const usage = `Usage: expenses [-db <db_path>] [-config <file>] <command> [flags]

Commands:
  add        -amount <n> -category <c> -description <d> -payment <Cash|Card> [-date YYYY-MM-DD]
  list       show all expenses, newest first
  delete     -id <n>
  summary    -by category|monthly|yearly [-csv]
  export     -format csv|xlsx -o <file>
  categories list the known categories and payment methods
  login      -user <name>
  signup     -user <name>
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	tracker *tracker.Tracker
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("expenses", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	dbPath := fs.String("db", "", "Path to database file (default from config, then "+config.DefaultDBPath+")")
	configPath := fs.String("config", "", "Path to YAML config file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("missing command")
	}

	command, rest := fs.Arg(0), fs.Args()[1:]

	// Commands that need no store
	if command == "categories" {
		return printCategories(stdout)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := logging.Setup(stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	a := &app{
		tracker: tracker.New(db, logger),
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
	}

	switch command {
	case "add":
		return a.add(rest)
	case "list":
		return a.list(rest)
	case "delete":
		return a.delete(rest)
	case "summary":
		return a.summary(rest)
	case "export":
		return a.export(rest)
	case "login":
		return a.login(rest)
	case "signup":
		return a.signup(rest)
	default:
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) add(args []string) error {
	fs := a.flagSet("add")
	date := fs.String("date", time.Now().Format(summary.DateLayout), "Date (YYYY-MM-DD)")
	amount := fs.String("amount", "", "Amount")
	category := fs.String("category", "", "Category")
	description := fs.String("description", "", "Description")
	payment := fs.String("payment", "", "Payment method (Cash or Card)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ok, msg := a.tracker.SubmitExpense(tracker.ExpenseForm{
		Name:          *description,
		Amount:        *amount,
		Date:          *date,
		Category:      *category,
		PaymentMethod: *payment,
	})
	if !ok {
		return errors.New(msg)
	}
	fmt.Fprintln(a.stdout, msg)
	return nil
}

func (a *app) list(args []string) error {
	if err := a.flagSet("list").Parse(args); err != nil {
		return err
	}

	expenses, err := a.tracker.LoadExpenses()
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}
	if len(expenses) == 0 {
		fmt.Fprintln(a.stdout, "No expenses recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tAMOUNT\tCATEGORY\tDESCRIPTION\tPAYMENT")
	for _, e := range expenses {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\t%s\t%s\n", e.ID, e.Date, e.Amount, e.Category, e.Description, e.PaymentMethod)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Total Expenses: $%.2f\n", summary.Total(expenses))
	return nil
}

func (a *app) delete(args []string) error {
	fs := a.flagSet("delete")
	id := fs.Int64("id", 0, "Expense ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("missing required flags: id")
	}

	ok, msg := a.tracker.DeleteExpense(*id)
	if !ok {
		return errors.New(msg)
	}
	fmt.Fprintln(a.stdout, msg)
	return nil
}

func (a *app) summary(args []string) error {
	fs := a.flagSet("summary")
	by := fs.String("by", string(tracker.ByCategory), "Grouping: category, monthly or yearly")
	asCSV := fs.Bool("csv", false, "Write the totals as CSV")
	if err := fs.Parse(args); err != nil {
		return err
	}

	kind, err := tracker.ParseSummaryKind(*by)
	if err != nil {
		return err
	}
	totals, err := a.tracker.Summary(kind)
	if err != nil {
		return fmt.Errorf("failed to build %s summary: %w", kind, err)
	}

	if *asCSV {
		return export.TotalsCSV(a.stdout, summaryTitle(kind), totals)
	}
	if len(totals) == 0 {
		fmt.Fprintln(a.stdout, "No expenses recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tTOTAL\n", strings.ToUpper(summaryTitle(kind)))
	var grand float64
	for _, key := range summary.SortedKeys(totals) {
		fmt.Fprintf(tw, "%s\t%.2f\n", key, totals[key])
		grand += totals[key]
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Total Expenses: $%.2f\n", grand)
	return nil
}

func (a *app) export(args []string) error {
	fs := a.flagSet("export")
	format := fs.String("format", "csv", "Output format: csv or xlsx")
	out := fs.String("o", "", "Output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return fmt.Errorf("missing required flags: o")
	}

	expenses, err := a.tracker.LoadExpenses()
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}

	var write func(io.Writer) error
	switch strings.ToLower(*format) {
	case "csv":
		write = func(w io.Writer) error { return export.ExpensesCSV(w, expenses) }
	case "xlsx":
		sheets := a.totalSheets(expenses)
		write = func(w io.Writer) error { return export.WriteWorkbook(w, expenses, sheets...) }
	default:
		return fmt.Errorf("unknown format %q: must be csv or xlsx", *format)
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", *out, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to export: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Exported %d expenses to %s\n", len(expenses), *out)
	return nil
}

// totalSheets builds one sheet per summary. A summary that cannot be computed,
// such as a monthly view over a malformed date, is left out with a warning.
func (a *app) totalSheets(expenses []models.Expense) []export.Sheet {
	var sheets []export.Sheet
	for _, kind := range []tracker.SummaryKind{tracker.ByCategory, tracker.ByMonth, tracker.ByYear} {
		totals, err := tracker.Aggregate(kind, expenses)
		if err != nil {
			fmt.Fprintf(a.stderr, "Warning: skipping %s sheet: %v\n", kind, err)
			continue
		}
		sheets = append(sheets, export.Sheet{
			Name:   "By " + summaryTitle(kind),
			Title:  summaryTitle(kind),
			Totals: totals,
		})
	}
	return sheets
}

func (a *app) login(args []string) error {
	fs := a.flagSet("login")
	username := fs.String("user", "", "Username")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := prompt.Password(a.stdin, a.stdout, "Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	identity, msg := a.tracker.Login(*username, password)
	if identity == nil {
		return errors.New(msg)
	}
	fmt.Fprintf(a.stdout, "Logged in as %s (ID %d)\n", identity.Username, identity.ID)
	return nil
}

func (a *app) signup(args []string) error {
	fs := a.flagSet("signup")
	username := fs.String("user", "", "Username")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := prompt.Password(a.stdin, a.stdout, "Password: ")
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read password: %w", err)
	}

	ok, msg := a.tracker.Signup(*username, password)
	if !ok {
		return errors.New(msg)
	}
	fmt.Fprintln(a.stdout, msg)
	return nil
}

func printCategories(w io.Writer) error {
	fmt.Fprintln(w, "Categories:")
	for _, c := range models.Categories {
		fmt.Fprintf(w, "  %s\n", c)
	}
	fmt.Fprintln(w, "Payment methods:")
	for _, p := range models.PaymentMethods {
		fmt.Fprintf(w, "  %s\n", p)
	}
	return nil
}

func summaryTitle(kind tracker.SummaryKind) string {
	switch kind {
	case tracker.ByMonth:
		return "Month"
	case tracker.ByYear:
		return "Year"
	default:
		return "Category"
	}
}
