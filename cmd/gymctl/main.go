// Command gymctl is the front-desk operator tool. It talks to a running
// gymdesk server through the same optimistic client the web UI mirrors.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/client"
	"gymdesk/internal/domain/finance"
	"gymdesk/internal/domain/member"
)

const usage = `usage: gymctl [-server URL] [-pin PIN] <command> [flags]

commands:
  status          member counts, money totals, birthdays and machines due
  dashboard       server dashboard for this month
  members         list members
  add-member      register a member (records the fee as income)
  delete-member   remove a member by -id
  add-expense     record an expense
  remind          email members whose membership is about to expire
  export          download members, finances or attendance as csv or xlsx
  reset           wipe all data (requires -confirm RESET)
`

func main() {
	// A missing .env is fine; a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "gymctl: .env:", err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "gymctl:", err)
		os.Exit(1)
	}
}

// env returns the named variable or fallback.
func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("gymctl", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	server := global.String("server", env("GYM_SERVER", "http://localhost:8080"), "server base URL")
	pin := global.String("pin", os.Getenv("GYM_ADMIN_PIN"), "admin PIN")
	if err := global.Parse(args); err != nil {
		return err
	}
	if global.NArg() == 0 {
		global.Usage()
		return errors.New("missing command")
	}
	cmd, rest := global.Arg(0), global.Args()[1:]

	api, err := client.NewAPI(*server)
	if err != nil {
		return err
	}
	if _, err := api.LoginAdmin(ctx, *pin); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer api.Logout(context.Background())

	notices := client.NewChanNotifier(16)
	store := client.NewStore(api, notices)
	defer drain(notices, stderr)

	c := &cli{api: api, store: store, out: stdout, now: time.Now}
	switch cmd {
	case "status":
		return c.status(ctx)
	case "dashboard":
		return c.dashboard(ctx)
	case "members":
		return c.members(ctx)
	case "add-member":
		return c.addMember(ctx, rest)
	case "delete-member":
		return c.deleteMember(ctx, rest)
	case "add-expense":
		return c.addExpense(ctx, rest)
	case "remind":
		return c.remind(ctx, rest)
	case "export":
		return c.export(ctx, rest)
	case "reset":
		return c.reset(ctx, rest)
	default:
		global.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// drain prints every pending notice.
func drain(n *client.ChanNotifier, w io.Writer) {
	for {
		select {
		case notice := <-n.C():
			fmt.Fprintf(w, "rolled back %s %s: %s\n", notice.Op, notice.Kind, notice.Message)
		default:
			return
		}
	}
}

type cli struct {
	api   *client.API
	store *client.Store
	out   io.Writer
	now   func() time.Time
}

func (c *cli) status(ctx context.Context) error {
	if err := c.store.Load(ctx); err != nil {
		return err
	}
	st := c.store.State()
	today := c.now()
	counts := client.CountMembers(st.Members, today)
	totals := client.Totals(st)

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "members\t%d\n", counts.Total)
	fmt.Fprintf(tw, "active\t%d\n", counts.Active)
	fmt.Fprintf(tw, "expired\t%d\n", counts.Expired)
	fmt.Fprintf(tw, "expiring soon\t%d\n", counts.ExpiringSoon)
	fmt.Fprintf(tw, "income\t%s\n", totals.Income.StringFixed(2))
	fmt.Fprintf(tw, "expense\t%s\n", totals.Expense.StringFixed(2))
	fmt.Fprintf(tw, "balance\t%s\n", totals.Balance.StringFixed(2))
	for _, name := range client.BirthdaysToday(st.Members, today) {
		fmt.Fprintf(tw, "birthday\t%s\n", name)
	}
	for _, name := range client.MaintenanceDue(st, today) {
		fmt.Fprintf(tw, "maintenance due\t%s\n", name)
	}
	return tw.Flush()
}

func (c *cli) dashboard(ctx context.Context) error {
	d, err := c.api.Dashboard(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "members\t%d\n", d.TotalMembers)
	fmt.Fprintf(tw, "active\t%d\n", d.ActiveMembers)
	fmt.Fprintf(tw, "expiring soon\t%d\n", d.ExpiringSoon)
	fmt.Fprintf(tw, "present today\t%d\n", d.TodayPresent)
	fmt.Fprintf(tw, "income this month\t%s\n", d.MonthlyIncome.StringFixed(2))
	fmt.Fprintf(tw, "expense this month\t%s\n", d.MonthlyExpense.StringFixed(2))
	return tw.Flush()
}

func (c *cli) members(ctx context.Context) error {
	if err := c.store.Load(ctx); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tPLAN\tEXPIRES\tSTATUS")
	for _, m := range c.store.State().Members {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Phone, m.PlanType, m.ExpiryDate, m.Status)
	}
	return tw.Flush()
}

func newFlagSet(name string) *flag.FlagSet {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	return flags
}

func (c *cli) addMember(ctx context.Context, args []string) error {
	flags := newFlagSet("add-member")
	name := flags.String("name", "", "full name")
	phone := flags.String("phone", "", "phone number")
	mail := flags.String("email", "", "email address")
	dob := flags.String("dob", "", "date of birth YYYY-MM-DD")
	plan := flags.String("plan", member.PlanMonthly, "Monthly, Quarterly, Half-Yearly or Yearly")
	amount := flags.String("amount", "0", "fee paid")
	start := flags.String("start", "", "start date YYYY-MM-DD (default today)")
	trainerID := flags.Int64("trainer", 0, "assigned trainer id")
	if err := flags.Parse(args); err != nil {
		return err
	}
	fee, err := decimal.NewFromString(*amount)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	m := member.Member{
		Name:      *name,
		Phone:     *phone,
		Email:     *mail,
		DOB:       *dob,
		PlanType:  *plan,
		Amount:    fee,
		StartDate: *start,
	}
	if *trainerID > 0 {
		m.TrainerID = trainerID
	}
	created, err := c.store.AddMember(ctx, m)
	if created.ID > 0 {
		fmt.Fprintf(c.out, "member %d registered, expires %s\n", created.ID, created.ExpiryDate)
	}
	return err
}

func (c *cli) deleteMember(ctx context.Context, args []string) error {
	flags := newFlagSet("delete-member")
	id := flags.Int64("id", 0, "member id")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return errors.New("-id is required")
	}
	if err := c.store.DeleteMember(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "member %d deleted\n", *id)
	return nil
}

func (c *cli) addExpense(ctx context.Context, args []string) error {
	flags := newFlagSet("add-expense")
	amount := flags.String("amount", "", "amount spent")
	category := flags.String("category", "", "e.g. Rent, Electricity, Equipment")
	desc := flags.String("desc", "", "description")
	date := flags.String("date", "", "date YYYY-MM-DD (default today)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	value, err := decimal.NewFromString(*amount)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	f, err := c.store.AddFinance(ctx, finance.Finance{
		Type:        finance.TypeExpense,
		Amount:      value,
		Date:        *date,
		Category:    *category,
		Description: *desc,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "expense %d recorded\n", f.ID)
	return nil
}

func (c *cli) remind(ctx context.Context, args []string) error {
	flags := newFlagSet("remind")
	days := flags.Int("days", -1, "window in days (default: server setting)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	res, err := c.api.SendReminders(ctx, *days)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "expiring %d, sent %d, skipped (no email) %d\n", res.Expiring, res.Sent, res.SkippedNoEmail)
	return nil
}

func (c *cli) export(ctx context.Context, args []string) error {
	flags := newFlagSet("export")
	typ := flags.String("type", "members", "members, finances or attendance")
	format := flags.String("format", "csv", "csv or xlsx")
	dir := flags.String("o", ".", "output directory")
	if err := flags.Parse(args); err != nil {
		return err
	}
	name, body, err := c.api.Export(ctx, *typ, *format)
	if err != nil {
		return err
	}
	path := filepath.Join(*dir, filepath.Base(name))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "wrote %s (%d bytes)\n", path, len(body))
	return nil
}

func (c *cli) reset(ctx context.Context, args []string) error {
	flags := newFlagSet("reset")
	confirm := flags.String("confirm", "", "type RESET to confirm")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *confirm != orchestrators.ResetConfirmation {
		return errors.New("refusing to reset without -confirm RESET")
	}
	if err := c.store.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "all data deleted")
	return nil
}
