// Package ofx parses OFX/QFX bank statements into ledger entries so a
// statement export can be imported in bulk.
package ofx

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/phamduc/soquy/internal/model"
)

// Entry is one statement line mapped onto the ledger's terms. Debits
// become expenses and credits become income; the category is left for
// the importer to assign.
type Entry struct {
	Type   model.TransactionType
	Amount float64
	Date   string
	Note   string
}

// Parser reads OFX and QFX statement files.
type Parser struct{}

// NewParser creates an OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

var (
	severityRe = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	openTagRe  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocess repairs formatting quirks seen in real bank exports:
// leading blank lines, mixed-case SEVERITY values, and SGML-style tags
// missing their closing bracket.
func (p *Parser) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRe.ReplaceAllStringFunc(content, strings.ToUpper)
	return openTagRe.ReplaceAllString(content, "$1>")
}

// Parse reads an OFX/QFX statement and returns its entries. Bank and
// credit card statements are both handled; a statement that fails to
// convert is logged and skipped rather than aborting the import.
func (p *Parser) Parse(reader io.Reader) ([]Entry, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var entries []Entry
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			for _, tx := range stmt.BankTranList.Transactions {
				entries = append(entries, p.convert(tx))
			}
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			for _, tx := range stmt.BankTranList.Transactions {
				entries = append(entries, p.convert(tx))
			}
		}
	}

	slog.Info("parsed OFX statement", "entries", len(entries))
	return entries, nil
}

// convert maps one OFX transaction onto a ledger entry. OFX amounts
// are negative for debits.
func (p *Parser) convert(tx ofxgo.Transaction) Entry {
	amount, _ := tx.TrnAmt.Float64()
	entryType := model.TypeIncome
	if amount < 0 {
		entryType = model.TypeExpense
		amount = -amount
	}

	return Entry{
		Type:   entryType,
		Amount: amount,
		Date:   model.FormatDate(tx.DtPosted.Time),
		Note:   describe(tx),
	}
}

// describe picks the most useful text for the entry note: the payee
// name when present, falling back to the memo when the name is one of
// the generic processor labels.
func describe(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && isGeneric(name) {
		name = strings.TrimSpace(string(tx.Memo))
	}
	return name
}

func isGeneric(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
