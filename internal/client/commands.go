package client

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/MKhiriev/go-zakat-keeper/internal/service"
	"github.com/MKhiriev/go-zakat-keeper/models"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const paidAtLayout = "2006-01-02"

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "zakat-keeper",
		Short: "Record zakat payments with end-to-end encrypted recipients and notes",
		Long: `zakat-keeper keeps a record of zakat payments. Recipient and notes are
encrypted on this machine with a key derived from your secret, so the server
never sees them. Accounts created before zero-knowledge storage can be moved
over with the migrate command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.connectServices(cmd.Context())
		},
	}

	root.PersistentFlags().StringVarP(&a.flags.configPath, "config", "c", "", "path to a JSON config file")
	root.PersistentFlags().StringVarP(&a.flags.server, "server", "s", "", "server base URL")
	root.PersistentFlags().StringVar(&a.flags.journal, "journal", "", "path to the local migration journal")
	root.PersistentFlags().StringVarP(&a.flags.login, "login", "l", "", "account login (or "+LoginEnv+")")

	root.AddCommand(
		a.registerCommand(),
		a.statusCommand(),
		a.migrateCommand(),
		a.paymentsCommand(),
		a.versionCommand(),
	)
	return root
}

func (a *App) registerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Creates an account for --login. The secret is asked for twice unless
` + SecretEnv + ` is set. It never leaves this machine; losing it means losing
access to encrypted recipients and notes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			login, err := a.login()
			if err != nil {
				return err
			}
			secret, err := a.readSecret(true)
			if err != nil {
				return err
			}

			session, err := a.services.AuthService.Register(cmd.Context(), login, secret)
			if err != nil {
				return err
			}
			session.Close()

			fmt.Fprintf(a.out, "%s Registered %s\n", uiSuccess.Sprint("✓"), uiHighlight.Sprint(login))
			return nil
		},
	}
}

func (a *App) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the encryption migration status of the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, session, err := a.signIn(cmd.Context())
			if err != nil {
				return err
			}
			defer session.Close()

			status, err := a.services.MigrationService.Status(cmd.Context())
			if err != nil {
				return err
			}
			printStatus(a.out, status)
			return nil
		},
	}
}

func printStatus(w io.Writer, status models.EncryptionStatus) {
	fmt.Fprintf(w, "Migration status: %s\n", statusLabel(status.Status))
	if status.Status == models.MigrationInProgress {
		fmt.Fprintf(w, "Fields migrated:  %d/%d\n", status.MigratedFields, status.TotalFields)
	}
	fmt.Fprintf(w, "Stored fields:    %d legacy, %d zero-knowledge, %d plaintext\n",
		status.Fields.Legacy, status.Fields.ZeroKnowledge, status.Fields.Plaintext)
	if status.Status != models.MigrationCompleted {
		fmt.Fprintf(w, "%s run %s to encrypt your data end to end\n", uiInfo.Sprint("→"), uiHighlight.Sprint("zakat-keeper migrate"))
	}
}

func statusLabel(s models.MigrationStatus) string {
	switch s {
	case models.MigrationCompleted:
		return uiSuccess.Sprint(s)
	case models.MigrationInProgress:
		return uiWarning.Sprint(s)
	default:
		return uiMuted.Sprint(s)
	}
}

func (a *App) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Move legacy server-encrypted fields to zero-knowledge storage",
		Long: `Asks the server for the plaintext of every legacy field, encrypts it with
your key and stores it back record by record. An interrupted run can simply
be started again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			login, session, err := a.signIn(cmd.Context())
			if err != nil {
				return err
			}
			defer session.Close()

			s, cleanup := a.startSpinner("Migrating payments...")
			progress := func(done, total int) {
				s.Lock()
				s.Suffix = fmt.Sprintf(" Migrating payments... %d/%d", done, total)
				s.Unlock()
			}

			report, err := a.services.MigrationService.Migrate(cmd.Context(), login, session, progress)
			s.FinalMSG = migrationSummary(report, err)
			cleanup()
			return err
		},
	}
}

func migrationSummary(report service.MigrationReport, err error) string {
	var b strings.Builder

	switch {
	case err == nil && report.Status == models.MigrationCompleted:
		fmt.Fprintf(&b, "%s Migration completed\n", uiSuccess.Sprint("✓"))
	case errors.Is(err, service.ErrIncompleteMigration):
		fmt.Fprintf(&b, "%s Migration is not complete\n", uiWarning.Sprint("!"))
	case err != nil:
		fmt.Fprintf(&b, "%s Migration failed\n", uiError.Sprint("✗"))
	default:
		fmt.Fprintf(&b, "%s Migration status: %s\n", uiInfo.Sprint("→"), report.Status)
	}

	if report.Records == 0 && report.Skipped == 0 {
		return b.String()
	}

	fmt.Fprintf(&b, "  records handed over: %d\n", report.Records)
	fmt.Fprintf(&b, "  committed:           %d\n", report.Committed)
	if report.Skipped > 0 {
		fmt.Fprintf(&b, "  already done:        %d %s\n", report.Skipped, uiMuted.Sprint("earlier run"))
	}
	if report.Missing > 0 {
		fmt.Fprintf(&b, "  deleted meanwhile:   %d\n", report.Missing)
	}

	ids := make([]int64, 0, len(report.FailedFields))
	for id := range report.FailedFields {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fmt.Fprintf(&b, "  %s payment #%d: %s could not be decrypted by the server\n",
			uiWarning.Sprint("!"), id, strings.Join(report.FailedFields[id], ", "))
	}

	return b.String()
}

func (a *App) paymentsCommand() *cobra.Command {
	payments := &cobra.Command{
		Use:     "payments",
		Aliases: []string{"payment", "p"},
		Short:   "List and record payments",
	}
	payments.AddCommand(a.paymentsListCommand(), a.paymentsAddCommand())
	return payments
}

func (a *App) paymentsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List payments with recipient and notes decrypted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, session, err := a.signIn(cmd.Context())
			if err != nil {
				return err
			}
			defer session.Close()

			views, err := a.services.PaymentService.List(cmd.Context(), session)
			if err != nil {
				return err
			}
			if len(views) == 0 {
				fmt.Fprintln(a.out, "No payments recorded yet.")
				return nil
			}

			printPayments(a.out, views)
			return nil
		},
	}
}

func printPayments(out io.Writer, views []models.PaymentView) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tPAID AT\tAMOUNT\tRECIPIENT\tNOTES")
	for _, v := range views {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			v.ID, v.PaidAt.Format(paidAtLayout), formatAmount(v.AmountMinor, v.Currency), v.Recipient, v.Notes)
	}
	_ = w.Flush()

	for _, v := range views {
		if len(v.CorruptedFields) > 0 {
			fmt.Fprintf(out, "%s payment #%d: %s could not be decrypted\n",
				uiWarning.Sprint("!"), v.ID, strings.Join(v.CorruptedFields, ", "))
		}
	}
}

func formatAmount(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign, minor = "-", -minor
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, minor/100, minor%100, currency)
}

func (a *App) paymentsAddCommand() *cobra.Command {
	var (
		amount    int64
		currency  string
		paidAt    string
		recipient string
		notes     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a payment",
		Example: `  zakat-keeper payments add --amount 2500 --currency EUR --recipient "Water Well"
  zakat-keeper payments add --amount 10000 --currency USD --paid-at 2025-03-30 --notes "Ramadan"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date := time.Now().UTC().Truncate(24 * time.Hour)
			if paidAt != "" {
				parsed, err := time.Parse(paidAtLayout, paidAt)
				if err != nil {
					return fmt.Errorf("--paid-at must look like %s: %w", paidAtLayout, err)
				}
				date = parsed
			}

			_, session, err := a.signIn(cmd.Context())
			if err != nil {
				return err
			}
			defer session.Close()

			view, err := a.services.PaymentService.Create(cmd.Context(), session, models.PaymentView{
				AmountMinor: amount,
				Currency:    strings.ToUpper(currency),
				PaidAt:      date,
				Recipient:   recipient,
				Notes:       notes,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%s Recorded payment #%d: %s\n",
				uiSuccess.Sprint("✓"), view.ID, formatAmount(view.AmountMinor, view.Currency))
			return nil
		},
	}

	cmd.Flags().Int64VarP(&amount, "amount", "a", 0, "amount in minor units, e.g. cents")
	cmd.Flags().StringVar(&currency, "currency", "", "ISO 4217 currency code")
	cmd.Flags().StringVar(&paidAt, "paid-at", "", "payment date as "+paidAtLayout+" (default today)")
	cmd.Flags().StringVarP(&recipient, "recipient", "r", "", "who received the payment")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "free-form notes")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("currency")

	return cmd
}

func (a *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print client and server versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.out, "Client: %s %s\n", orNA(a.build.Version),
				uiMuted.Sprintf("%s, %s", orNA(a.build.Commit), orNA(a.build.Date)))

			version, err := a.services.AppInfoService.ServerVersion(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Server: %s\n", version)
			return nil
		},
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// startSpinner starts a spinner when output goes to a terminal. The returned
// cleanup stops it and prints FinalMSG, also when the spinner never ran.
func (a *App) startSpinner(message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(a.out))
	s.Suffix = " " + message
	if err := s.Color("cyan"); err != nil {
		a.logger.Warn().Err(err).Str("func", "*App.startSpinner").Msg("failed to set spinner color")
	}

	interactive := isTerminal(a.out)
	if interactive {
		s.Start()
	}

	cleanup := func() {
		if s.FinalMSG != "" && !strings.HasSuffix(s.FinalMSG, "\n") {
			s.FinalMSG += "\n"
		}
		if interactive {
			s.Stop()
			return
		}
		fmt.Fprint(a.out, s.FinalMSG)
	}
	return s, cleanup
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
