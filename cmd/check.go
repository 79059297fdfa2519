package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docshell/internal/content"
	"github.com/ziadkadry99/docshell/internal/languages"
	"github.com/ziadkadry99/docshell/internal/progress"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Render every page through the shell and report failures",
	Long:  `Loads the content tree and renders each document exactly as serve would, reporting any page that fails to resolve or render.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := buildSite(cfg, logger)
		if err != nil {
			return err
		}

		docs := st.library.Documents()
		reporter := progress.NewReporter(os.Stderr, "Checking pages")
		reporter.Start(len(docs))

		var failed int
		for i, doc := range docs {
			if err := checkDocument(st, doc); err != nil {
				failed++
				logger.Error("page check failed", "document", doc.Key(), "error", err)
			}
			reporter.Update(i+1, doc.Key())
		}
		reporter.Finish(failed)

		if failed > 0 {
			return fmt.Errorf("%d of %d pages failed", failed, len(docs))
		}
		return nil
	},
}

// checkDocument renders doc the way a request for its URL would be.
func checkDocument(st *site, doc *content.Document) error {
	path := "/" + doc.Locale
	if doc.Slug != "" {
		path += "/" + doc.Slug
	}
	req, err := http.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	ctx := languages.WithRecords(req.Context(), st.registry.Records())
	ctx = languages.WithLocale(ctx, doc.Locale)
	req = req.WithContext(ctx)

	props, err := st.shell.GetInitialProps(req, st.docs)
	if err != nil {
		return fmt.Errorf("computing props for %s: %w", path, err)
	}
	if err := st.shell.Render(io.Discard, req, st.docs, props); err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
