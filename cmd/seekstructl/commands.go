package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/seekstruth-backend/internal/catalog"
	"github.com/yungbote/seekstruth-backend/internal/platform/authtoken"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
	"github.com/yungbote/seekstruth-backend/internal/quiz"
	"github.com/yungbote/seekstruth-backend/internal/quotecard"
)

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "seekstructl",
		Short:         "Catalog and share-card tooling for seekstruth",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)
	root.SetErr(out)
	root.AddCommand(newValidateCmd(), newQuotesCmd(), newCardCmd(), newTokenCmd())
	return root
}

// loadCatalog reads dir, or the bundled catalog when no dir is given.
func loadCatalog(args []string) (*catalog.Catalog, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return catalog.Default()
	}
	return catalog.LoadDir(args[0])
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dir]",
		Short: "Load a catalog directory and report every problem in it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(args)
			if err != nil {
				return err
			}
			if err := cat.Validate(); err != nil {
				return fmt.Errorf("catalog invalid:\n%w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d chapters, %d questions, %d items, %d quotes\n",
				len(cat.Chapters()), cat.TotalQuestions(), len(cat.Items()), len(cat.Quotes()))
			return nil
		},
	}
}

func newQuotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quotes [dir]",
		Short: "Print where each quote appears in the chapter sequence",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(args)
			if err != nil {
				return err
			}
			slots := quiz.QuoteSchedule(cat.Chapters(), cat.Quotes())
			w := cmd.OutOrStdout()
			if len(slots) == 0 {
				fmt.Fprintln(w, "no quotes scheduled")
				return nil
			}
			for _, s := range slots {
				fmt.Fprintf(w, "%s\tquestion %d\tquote %s\n", s.ChapterID, s.QuestionIndex+1, s.Quote.ID)
			}
			return nil
		},
	}
}

func newCardCmd() *cobra.Command {
	var (
		output  string
		color   string
		footer  string
		dir     string
		fontArg string
	)
	cmd := &cobra.Command{
		Use:   "card <quote-id>",
		Short: "Render a quote share card as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog([]string{dir})
			if err != nil {
				return err
			}
			q, ok := cat.Quote(args[0])
			if !ok {
				return fmt.Errorf("quote %q not found", args[0])
			}
			r, err := quotecard.New(logger.Nop(), fontArg)
			if err != nil {
				return err
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := r.Render(f, q, quotecard.Options{PrimaryColor: color, Footer: footer}); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "card.png", "output file")
	cmd.Flags().StringVar(&color, "color", "blue", "primary color name or #rrggbb")
	cmd.Flags().StringVar(&footer, "footer", "seekstruth", "footer text")
	cmd.Flags().StringVar(&dir, "dir", "", "catalog directory (default: bundled catalog)")
	cmd.Flags().StringVar(&fontArg, "font", "", "TrueType font file (default: Go Regular)")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		secret string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a bearer token for a user id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET_KEY")
			}
			tok, err := authtoken.NewSigner(secret, ttl).Issue(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (default: $JWT_SECRET_KEY)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime, 0 for none")
	return cmd
}
