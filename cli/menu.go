package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"

	"github.com/robinvdvleuten/financetracker/report"
)

type MenuCmd struct{}

func (cmd *MenuCmd) Run(ctx *kong.Context, globals *Globals) error {
	if !isTerminal() {
		printError(ctx.Stderr, "The menu needs an interactive terminal.")
		return NewCommandError(1)
	}

	s, err := globals.open(ctx, "menu")
	if err != nil {
		return err
	}
	defer s.close()

	return s.runMenu()
}

const (
	menuExit = iota
	menuAdd
	menuList
	menuSearch
	menuMonthly
	menuBreakdown
	menuBudget
	menuExport
	menuStatistics
	menuBackupRestore
)

var menuItems = []huh.Option[int]{
	huh.NewOption("1. Add New Expense", menuAdd),
	huh.NewOption("2. View All Expenses", menuList),
	huh.NewOption("3. Search Expenses", menuSearch),
	huh.NewOption("4. Generate Monthly Report", menuMonthly),
	huh.NewOption("5. View Category Breakdown", menuBreakdown),
	huh.NewOption("6. Set/Update Budget", menuBudget),
	huh.NewOption("7. Export Data to CSV", menuExport),
	huh.NewOption("8. View Statistics", menuStatistics),
	huh.NewOption("9. Backup/Restore Data", menuBackupRestore),
	huh.NewOption("0. Exit", menuExit),
}

func (s *session) runMenu() error {
	for {
		choice := menuExit
		err := huh.NewSelect[int]().
			Title("Personal Finance Tracker").
			Options(menuItems...).
			Value(&choice).
			Run()
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return err
		}

		if err != nil || choice == menuExit {
			if err := s.save(); err != nil {
				return err
			}
			printSuccess(s.stdout, "Data saved. Goodbye!")
			return nil
		}

		if err := s.runMenuItem(choice); err != nil {
			switch {
			case errors.Is(err, huh.ErrUserAborted):
			case isInputError(err):
				printError(s.stderr, err.Error())
			default:
				return err
			}
		}
		_, _ = fmt.Fprintln(s.stdout)
	}
}

func (s *session) runMenuItem(choice int) error {
	switch choice {
	case menuAdd:
		return s.menuAddExpense()
	case menuList:
		return s.listExpenses(20)
	case menuSearch:
		var keyword string
		if err := huh.NewInput().Title("Enter keyword (date/category/description)").Value(&keyword).Run(); err != nil {
			return err
		}
		return s.searchExpenses(keyword)
	case menuMonthly:
		var yearMonth string
		if err := huh.NewInput().Title("Year-Month (YYYY-MM)").Placeholder("current").Value(&yearMonth).Run(); err != nil {
			return err
		}
		return s.monthlyReport(yearMonth)
	case menuBreakdown:
		return s.categoryBreakdown()
	case menuBudget:
		return s.menuSetBudget()
	case menuExport:
		return s.exportCSV()
	case menuStatistics:
		return s.statistics()
	case menuBackupRestore:
		return s.menuBackupRestore()
	}
	return nil
}

func (s *session) menuAddExpense() error {
	var date, amount, category, description string

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Date (YYYY-MM-DD)").Placeholder("today").Value(&date),
		huh.NewInput().Title("Amount").Value(&amount),
		huh.NewSelect[string]().
			Title("Category").
			Options(huh.NewOptions(s.ledger.Categories().Names()...)...).
			Value(&category),
		huh.NewInput().Title("Description").Value(&description),
	))
	if err := form.Run(); err != nil {
		return err
	}

	e, err := s.addExpense(date, amount, category, description)
	if err != nil {
		return err
	}
	printSuccess(s.stdout, fmt.Sprintf("Expense #%d added successfully!", e.ID))
	return nil
}

func (s *session) menuSetBudget() error {
	names := s.ledger.Categories().Names()
	inputs := make(map[string]*string, len(names))

	var fields []huh.Field
	for _, name := range names {
		raw := new(string)
		inputs[name] = raw
		fields = append(fields, huh.NewInput().
			Title(fmt.Sprintf("%s monthly budget", name)).
			Placeholder(fmt.Sprintf("current: %s", s.money(s.budget.Get(name)))).
			Value(raw))
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return err
	}

	values := make(map[string]string, len(inputs))
	for name, raw := range inputs {
		values[name] = *raw
	}

	for _, name := range applyBudgetInputs(s.budget, names, values) {
		printError(s.stderr, fmt.Sprintf("Invalid amount for %s, keeping existing.", name))
	}

	if err := s.save(); err != nil {
		return err
	}
	printSuccess(s.stdout, "Budget updated successfully!")
	return nil
}

// applyBudgetInputs updates budget from raw form values. Blank values keep
// the current budget. It returns the categories whose value was rejected, in
// the order of names.
func applyBudgetInputs(budget report.Budget, names []string, values map[string]string) []string {
	var rejected []string
	for _, name := range names {
		raw := strings.TrimSpace(values[name])
		if raw == "" {
			continue
		}
		value, err := parseAmount(raw)
		if err != nil || value.IsNegative() {
			rejected = append(rejected, name)
			continue
		}
		budget[name] = value
	}
	return rejected
}

func (s *session) menuBackupRestore() error {
	var restore bool
	err := huh.NewSelect[bool]().
		Title("Backup/Restore").
		Options(
			huh.NewOption("1. Create Backup", false),
			huh.NewOption("2. Restore From Backup", true),
		).
		Value(&restore).
		Run()
	if err != nil {
		return err
	}

	if restore {
		return s.restore()
	}
	return s.backup()
}
