// =============================================================================
// Zoho to Tally Converter - XML Generation Stage
// =============================================================================
//
// This module drives the third pipeline stage. It reads the normalized
// tables left by the cleaning stage and emits one Tally import document per
// master type and voucher category into the output directory.
//
// CATEGORY ISOLATION:
//   A failure inside one voucher category aborts that category's document
//   only; the remaining categories still generate. All failures and warnings
//   are collected into the consolidated run report so a single run gives the
//   complete picture.
//
// IMPORT ORDER:
//   Masters must reach Tally before vouchers that reference them, so the
//   generated files are numbered implicitly by the documented import order:
//   ledgers, parties, then vouchers.
//
// =============================================================================

package generator

import (
	"fmt"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tallybridge/tallybridge/internal/config"
	"github.com/tallybridge/tallybridge/internal/tables"
	"github.com/tallybridge/tallybridge/internal/tallyxml"
	"github.com/tallybridge/tallybridge/internal/types"
	"github.com/tallybridge/tallybridge/pkg/utils"
)

// Output file names inside the output directory.
const (
	LedgersFile = "tally_ledgers.xml"
	PartiesFile = "tally_parties.xml"
)

// VouchersFile returns the output file name for one voucher category.
func VouchersFile(cat types.Category) string {
	return fmt.Sprintf("tally_%s_vouchers.xml", cat)
}

// =============================================================================
// BALANCE ERRORS
// =============================================================================

// BalanceError reports a voucher whose allocations do not sum to zero within
// the configured tolerance.
type BalanceError struct {
	Category   types.Category
	Number     string
	Difference decimal.Decimal
}

// Error implements the error interface.
func (e *BalanceError) Error() string {
	return fmt.Sprintf("%s voucher %q is out of balance by %s",
		e.Category, e.Number, e.Difference.StringFixed(2))
}

// =============================================================================
// GENERATOR
// =============================================================================

// Generator holds the run-scoped state of the generation stage.
type Generator struct {
	cfg *config.Config
	log *logrus.Logger

	warnings []string
	failures []string
}

// Result reports what the generation stage produced.
type Result struct {
	// Files are the generated XML documents in import order.
	Files []string

	// Warnings are recoverable conditions (skipped vouchers, inserted
	// round-off entries, absent categories).
	Warnings []string

	// Failures are categories or documents that did not generate.
	Failures []string

	// ReportPath is the consolidated run report.
	ReportPath string
}

// New creates a Generator.
func New(cfg *config.Config, log *logrus.Logger) *Generator {
	return &Generator{cfg: cfg, log: log}
}

// Run executes the full generation pass and writes the run report. Run only
// returns an error when nothing useful could be produced (the processed
// directory is unreadable or the report itself cannot be written); partial
// failure is expressed through Result.Failures.
func (g *Generator) Run() (*Result, error) {
	result := &Result{}

	if path, err := g.generateLedgers(); err != nil {
		g.fail("ledger masters: %v", err)
	} else if path != "" {
		result.Files = append(result.Files, path)
	}

	if path, err := g.generateParties(); err != nil {
		g.fail("party masters: %v", err)
	} else if path != "" {
		result.Files = append(result.Files, path)
	}

	for _, cat := range types.AllCategories {
		if !tables.Exists(g.cfg.ProcessedDir, cat) {
			g.warn("no %s table in %s, category skipped", cat, g.cfg.ProcessedDir)
			continue
		}

		path, err := g.generateVouchers(cat)
		if err != nil {
			g.fail("%s vouchers: %v", cat, err)
			continue
		}
		result.Files = append(result.Files, path)
	}

	result.Warnings = g.warnings
	result.Failures = g.failures

	reportPath, err := utils.WriteRunReport(g.cfg.OutputDir, g.warnings, g.failures)
	if err != nil {
		return nil, err
	}
	result.ReportPath = reportPath

	g.log.WithFields(logrus.Fields{
		"files":    len(result.Files),
		"warnings": len(result.Warnings),
		"failures": len(result.Failures),
	}).Info("generation pass complete")

	return result, nil
}

// publish validates and renders the document, then writes it atomically into
// the output directory, returning the full path. A tree that fails validation
// never produces a file.
func (g *Generator) publish(fileName string, root *tallyxml.Element) (string, error) {
	if err := tallyxml.Validate(root); err != nil {
		return "", err
	}
	path := filepath.Join(g.cfg.OutputDir, fileName)
	if err := utils.AtomicWriteFile(path, tallyxml.Render(root)); err != nil {
		return "", err
	}
	g.log.WithField("file", path).Info("document published")
	return path, nil
}

func (g *Generator) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	g.warnings = append(g.warnings, msg)
	g.log.Warn(msg)
}

func (g *Generator) fail(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	g.failures = append(g.failures, msg)
	g.log.Error(msg)
}
