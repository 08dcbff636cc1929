package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/expense-ledger/internal/account"
	"gitlab.com/yelinaung/expense-ledger/internal/budget"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
	"gitlab.com/yelinaung/expense-ledger/internal/report"
	"gitlab.com/yelinaung/expense-ledger/internal/tracker"
	"golang.org/x/term"
)

const monthLayout = "2006-01"

// newFlagSet returns a flag set with the -user flag every ledger command takes.
func newFlagSet(a *app, name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	user := fs.String("user", "", "Username")
	return fs, user
}

func requireUser(fs *flag.FlagSet, user string) (models.RequestContext, error) {
	if user == "" {
		fs.Usage()
		return models.RequestContext{}, fmt.Errorf("missing required flags: user")
	}
	return models.NewRequestContext(user), nil
}

// splitVerb separates a leading action from the flags. The first of verbs is
// used when no action is given.
func splitVerb(name string, args []string, verbs ...string) (string, []string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return verbs[0], args, nil
	}
	if slices.Contains(verbs, args[0]) {
		return args[0], args[1:], nil
	}
	return "", nil, fmt.Errorf("%s: unknown action %q (want %s)", name, args[0], strings.Join(verbs, ", "))
}

func parseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, want YYYY-MM", s)
	}
	return t.Year(), t.Month(), nil
}

// parsePeriod reads either -month or the -from/-to pair. The current month is
// used when none is given.
func parsePeriod(month, from, to string, now time.Time) (models.Period, error) {
	if from != "" || to != "" {
		if month != "" {
			return models.Period{}, fmt.Errorf("use either -month or -from/-to")
		}
		start, err := time.Parse(models.DateLayout, from)
		if err != nil {
			return models.Period{}, fmt.Errorf("invalid -from %q, want YYYY-MM-DD", from)
		}
		end, err := time.Parse(models.DateLayout, to)
		if err != nil {
			return models.Period{}, fmt.Errorf("invalid -to %q, want YYYY-MM-DD", to)
		}
		return models.RangePeriod(start, end)
	}

	if month == "" {
		return models.MonthPeriod(now.Year(), now.Month())
	}
	year, m, err := parseMonth(month)
	if err != nil {
		return models.Period{}, err
	}
	return models.MonthPeriod(year, m)
}

func cmdSignup(ctx context.Context, a *app, args []string) error {
	fs, user := newFlagSet(a, "signup")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	name := fs.String("name", "", "Display name")
	email := fs.String("email", "", "Contact email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" {
		fs.Usage()
		return fmt.Errorf("missing required flags: user")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(a.stdout, "Password: ")
		var err error
		password, err = readPassword(a.stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(a.stdout)
	}

	created, err := account.NewService(a.db, a.cfg.BcryptCost).Register(ctx, account.NewUser{
		Username:    *user,
		Password:    password,
		DisplayName: *name,
		Email:       *email,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "User %s created with %d default categories\n", created.Username, len(models.DefaultCategories))
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func cmdCategory(ctx context.Context, a *app, args []string) error {
	verb, args, err := splitVerb("category", args, "list", "add")
	if err != nil {
		return err
	}

	fs, user := newFlagSet(a, "category "+verb)
	name := fs.String("name", "", "Category name (add)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rc, err := requireUser(fs, *user)
	if err != nil {
		return err
	}

	ledger := tracker.New(a.db)
	if verb == "add" {
		cat, err := ledger.AddCategory(ctx, rc, *name)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Category %s added\n", cat.Name)
		return nil
	}

	cats, err := ledger.ListCategories(ctx, rc)
	if err != nil {
		return err
	}
	for _, cat := range cats {
		fmt.Fprintln(a.stdout, cat.Name)
	}
	return nil
}

func cmdExpense(ctx context.Context, a *app, args []string) error {
	verb, args, err := splitVerb("expense", args, "list", "add", "show")
	if err != nil {
		return err
	}

	fs, user := newFlagSet(a, "expense "+verb)
	amount := fs.String("amount", "", "Amount (add)")
	category := fs.String("category", "", "Category (add, defaults to "+models.DefaultCategory+")")
	on := fs.String("date", "", "Date YYYY-MM-DD (add, defaults to today)")
	desc := fs.String("desc", "", "Description (add)")
	checkWishlist := fs.Bool("wishlist", false, "Mark a matching wishlist item purchased (add)")
	confirm := fs.Bool("confirm", false, "Record even when no wishlist item matches (add)")
	month := fs.String("month", "", "Month YYYY-MM (list)")
	from := fs.String("from", "", "Start date YYYY-MM-DD (list)")
	to := fs.String("to", "", "End date YYYY-MM-DD (list)")
	id := fs.String("id", "", "Expense ID (show)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rc, err := requireUser(fs, *user)
	if err != nil {
		return err
	}

	ledger := tracker.New(a.db)
	switch verb {
	case "show":
		expenseID, err := strconv.ParseInt(*id, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid -id %q", *id)
		}
		exp, err := ledger.GetExpense(ctx, rc, expenseID)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Expense #%d\nDate: %s\nCategory: %s\nAmount: $%s\nDescription: %s\n",
			exp.ID, exp.Date.Format(models.DateLayout), exp.Category, exp.Amount.StringFixed(2), exp.Description)
		return nil
	case "list":
		period, err := parsePeriod(*month, *from, *to, time.Now())
		if err != nil {
			return err
		}
		expenses, err := ledger.ExpensesByDateRange(ctx, rc, period.Start, period.End)
		if err != nil {
			return err
		}
		for _, exp := range expenses {
			fmt.Fprintf(a.stdout, "#%d %s | %s | $%s | %s\n",
				exp.ID, exp.Date.Format(models.DateLayout), exp.Category, exp.Amount.StringFixed(2), exp.Description)
		}
		return nil
	}

	value, err := decimal.NewFromString(*amount)
	if err != nil {
		return fmt.Errorf("invalid -amount %q", *amount)
	}
	spentOn := time.Now()
	if *on != "" {
		if spentOn, err = time.Parse(models.DateLayout, *on); err != nil {
			return fmt.Errorf("invalid -date %q, want YYYY-MM-DD", *on)
		}
	}

	recorded, err := ledger.RecordExpense(ctx, rc, tracker.ExpenseInput{
		Amount:        value,
		Category:      *category,
		Date:          spentOn,
		Description:   *desc,
		CheckWishlist: *checkWishlist,
	}, *confirm)
	if err != nil {
		var pending *tracker.PendingConfirmationError
		if errors.As(err, &pending) {
			fmt.Fprintf(a.stdout, "No unpurchased wishlist item is named %q.\n", *desc)
			if len(pending.Match.Suggestions) > 0 {
				fmt.Fprintf(a.stdout, "Did you mean: %s?\n", strings.Join(pending.Match.Suggestions, ", "))
			}
			fmt.Fprintln(a.stdout, "Re-run with -confirm to record it anyway.")
		}
		return err
	}

	fmt.Fprintf(a.stdout, "Expense #%d recorded: $%s %s\n",
		recorded.Expense.ID, recorded.Expense.Amount.StringFixed(2), recorded.Expense.Category)
	if recorded.Purchased != nil {
		fmt.Fprintf(a.stdout, "Wishlist item %q marked purchased\n", recorded.Purchased.Item)
	}

	registered, err := ledger.LookupCategory(ctx, rc, recorded.Expense.Category)
	if err != nil {
		return err
	}
	if registered == nil {
		fmt.Fprintf(a.stdout, "Note: category %q is not registered; reports list it as unregistered\n",
			recorded.Expense.Category)
	}
	return nil
}

func cmdWishlist(ctx context.Context, a *app, args []string) error {
	verb, args, err := splitVerb("wishlist", args, "list", "add")
	if err != nil {
		return err
	}

	fs, user := newFlagSet(a, "wishlist "+verb)
	item := fs.String("item", "", "Item (add)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rc, err := requireUser(fs, *user)
	if err != nil {
		return err
	}

	ledger := tracker.New(a.db)
	if verb == "add" {
		added, err := ledger.AddWishlistItem(ctx, rc, *item)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Wishlist item %q added\n", added.Item)
		return nil
	}

	items, err := ledger.ListWishlist(ctx, rc)
	if err != nil {
		return err
	}
	for _, it := range items {
		status := "pending"
		if it.Purchased {
			status = "purchased"
		}
		fmt.Fprintf(a.stdout, "%s (%s)\n", it.Item, status)
	}
	return nil
}

func cmdGoal(ctx context.Context, a *app, args []string) error {
	verb, args, err := splitVerb("goal", args, "show", "list")
	if err != nil {
		return err
	}

	fs, user := newFlagSet(a, "goal "+verb)
	month := fs.String("month", time.Now().Format(monthLayout), "Month YYYY-MM")
	amount := fs.String("amount", "", "Goal amount (omit to show the current goal)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rc, err := requireUser(fs, *user)
	if err != nil {
		return err
	}

	ledger := tracker.New(a.db)
	if verb == "list" {
		goals, err := ledger.ListGoals(ctx, rc)
		if err != nil {
			return err
		}
		if len(goals) == 0 {
			fmt.Fprintln(a.stdout, "No goals set")
		}
		for _, g := range goals {
			fmt.Fprintf(a.stdout, "%d/%d: $%s\n", g.Month, g.Year, g.Amount.StringFixed(2))
		}
		return nil
	}

	year, m, err := parseMonth(*month)
	if err != nil {
		return err
	}
	if *amount == "" {
		current, ok, err := ledger.GetGoal(ctx, rc, year, m)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(a.stdout, "No goal set for %d/%d\n", int(m), year)
			return nil
		}
		fmt.Fprintf(a.stdout, "Goal for %d/%d: $%s\n", int(m), year, current.StringFixed(2))
		return nil
	}

	value, err := decimal.NewFromString(*amount)
	if err != nil {
		return fmt.Errorf("invalid -amount %q", *amount)
	}
	goal, err := ledger.SetGoal(ctx, rc, year, m, value)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Goal set: $%s for %d/%d\n", goal.Amount.StringFixed(2), goal.Month, goal.Year)
	return nil
}

func cmdReport(ctx context.Context, a *app, args []string) error {
	fs, user := newFlagSet(a, "report")
	month := fs.String("month", "", "Month YYYY-MM (defaults to the current month)")
	from := fs.String("from", "", "Start date YYYY-MM-DD")
	to := fs.String("to", "", "End date YYYY-MM-DD")
	out := fs.String("out", a.cfg.ReportOutputDir, "Directory for exported files")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rc, err := requireUser(fs, *user)
	if err != nil {
		return err
	}
	period, err := parsePeriod(*month, *from, *to, time.Now())
	if err != nil {
		return err
	}

	summary, err := budget.NewStoreEvaluator(a.db).Evaluate(ctx, rc, period)
	if err != nil {
		return err
	}
	printSummary(a.stdout, summary)

	exports, err := report.NewGenerator().All(summary)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*out, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, export := range exports {
		path := filepath.Join(*out, export.Name)
		if err := os.WriteFile(path, export.Data, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", export.Name, err)
		}
		fmt.Fprintf(a.stdout, "Wrote %s\n", path)
	}
	return nil
}

func printSummary(w io.Writer, s *budget.Summary) {
	fmt.Fprintf(w, "Period: %s\n", s.Period)
	if pct, ok := s.Percent(); ok {
		fmt.Fprintf(w, "Spending: $%s / $%s (%s%% of goal)\n", s.Total.StringFixed(2), s.Goal.StringFixed(2), pct.StringFixed(1))
	} else {
		fmt.Fprintf(w, "Spending: $%s\n", s.Total.StringFixed(2))
	}
	fmt.Fprintf(w, "Status: %s\n", s.Status.Label())

	for _, entry := range s.Breakdown {
		marker := ""
		if entry.Kind == budget.Orphan {
			marker = " (unregistered)"
		}
		fmt.Fprintf(w, "  %-20s $%s%s\n", entry.Name, entry.Amount.StringFixed(2), marker)
	}

	if s.Empty() {
		fmt.Fprintln(w, "No expenses recorded for this period.")
		return
	}
	fmt.Fprintf(w, "Highest: $%s %s\n", s.Highest.Amount.StringFixed(2), s.Highest.Description)
	fmt.Fprintf(w, "Lowest: $%s %s\n", s.Lowest.Amount.StringFixed(2), s.Lowest.Description)
}
