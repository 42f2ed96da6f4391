package service

import (
	"fmt"
	"strings"
	"time"

	"tuitionpay/internal/models"
)

const receiptTimeLayout = "15:04:05 02/01/2006"

// RenderReceipt produces the plain-text receipt for a single transaction.
// Pure formatting; the template mirrors what the cashier's office prints.
func RenderReceipt(t *models.Transaction, generatedAt time.Time) string {
	var b strings.Builder

	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format+"\n", args...)
	}
	rule := func() { line("-------------------------------------------") }

	line("===========================================")
	line("        TUITION PAYMENT RECEIPT")
	line("===========================================")
	line("")
	line("Transaction ID: %s", t.ID)
	line("Date: %s", t.CompletedAt.Format(receiptTimeLayout))
	line("Status: %s", t.Status)
	line("")
	rule()
	line("PAYER INFORMATION")
	rule()
	line("Name: %s", t.PayerName)
	line("")
	rule()
	line("STUDENT INFORMATION")
	rule()
	line("Student ID: %s", t.ReceiverID)
	line("Student Name: %s", t.ReceiverName)
	line("")
	rule()
	line("PAYMENT DETAILS")
	rule()
	line("Semester: %s", t.Semester)
	line("Academic Year: %s", t.AcademicYear)
	line("Amount: %s", FormatVND(t.Amount))
	line("")
	rule()
	line("This is an official receipt for tuition payment.")
	line("Generated on: %s", generatedAt.Format(receiptTimeLayout))
	line("===========================================")

	return b.String()
}

// FormatVND renders an amount in whole dong with dot-grouped thousands,
// e.g. 2500000 -> "2.500.000 VND".
func FormatVND(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := fmt.Sprintf("%d", amount)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := strings.Join(groups, ".") + " VND"
	if negative {
		out = "-" + out
	}
	return out
}
