package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/deuceleague/appcore/internal/backnav"
	"github.com/deuceleague/appcore/internal/client"
	"github.com/deuceleague/appcore/internal/gate"
	"github.com/deuceleague/appcore/internal/onboarding"
	"github.com/deuceleague/appcore/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func renderAction(a gate.Action) string {
	switch a {
	case gate.ActionAllow:
		return ui.RenderSuccess(a.String())
	case gate.ActionRedirect:
		return ui.RenderFailure(a.String())
	default:
		return ui.RenderMuted(a.String())
	}
}

type decisionOutput struct {
	Path         string `json:"path"`
	Action       string `json:"action"`
	Target       string `json:"target,omitempty"`
	Reason       string `json:"reason,omitempty"`
	NeedsRefresh bool   `json:"needsRefresh,omitempty"`
}

func decisionToOutput(path string, dec gate.Decision) decisionOutput {
	return decisionOutput{
		Path:         path,
		Action:       dec.Action.String(),
		Target:       dec.Target,
		Reason:       dec.Reason,
		NeedsRefresh: dec.NeedsRefresh,
	}
}

func printDecision(path string, dec gate.Decision) {
	if jsonOutput {
		printJSON(decisionToOutput(path, dec))
		return
	}
	line := fmt.Sprintf("%-32s %s", path, renderAction(dec.Action))
	if dec.Target != "" {
		line += " to " + ui.RenderAccent(dec.Target)
	}
	if dec.Reason != "" {
		line += "  " + ui.RenderMuted("("+dec.Reason+")")
	}
	fmt.Println(line)
}

func printStatus(uid string, st onboarding.Status) {
	if jsonOutput {
		printJSON(struct {
			UserID                 string `json:"userId"`
			CompletedOnboarding    bool   `json:"completedOnboarding"`
			HasCompletedAssessment bool   `json:"hasCompletedAssessment"`
			FetchedAt              string `json:"fetchedAt"`
		}{uid, st.CompletedOnboarding, st.HasCompletedAssessment, st.FetchedAt.Format("2006-01-02 15:04:05")})
		return
	}
	verdict := ui.RenderFailure("incomplete")
	if st.Complete() {
		verdict = ui.RenderSuccess("complete")
	}
	fmt.Printf("User:        %s\n", uid)
	fmt.Printf("Onboarding:  %s\n", verdict)
	fmt.Printf("Completed:   %v\n", st.CompletedOnboarding)
	fmt.Printf("Assessment:  %v\n", st.HasCompletedAssessment)
	fmt.Printf("Fetched At:  %s\n", st.FetchedAt.Format("2006-01-02 15:04:05"))
}

func printBackResult(current string, res backnav.Result, trail []string) {
	if jsonOutput {
		printJSON(struct {
			Route  string   `json:"route"`
			Result string   `json:"result"`
			Trail  []string `json:"trail"`
		}{current, res.String(), trail})
		return
	}
	rendered := ui.RenderAccent(res.String())
	if res == backnav.ResultNotHandled {
		rendered = ui.RenderMuted(res.String())
	}
	fmt.Printf("Route:   %s\n", current)
	fmt.Printf("Result:  %s\n", rendered)
	fmt.Printf("Trail:   %s\n", strings.Join(trail, "  "))
}

func printPayment(p client.Payment) {
	if jsonOutput {
		printJSON(p)
		return
	}
	fmt.Printf("Order:       %s\n", p.OrderID)
	fmt.Printf("Status:      %s\n", renderPaymentStatus(p.Status))
	fmt.Printf("Amount:      %.2f\n", p.Amount)
	if p.PaidAt != nil {
		fmt.Printf("Paid At:     %s\n", p.PaidAt.Format("2006-01-02 15:04:05"))
	}
	if !p.CreatedAt.IsZero() {
		fmt.Printf("Created At:  %s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

func printPaymentTable(payments []client.Payment) {
	if jsonOutput {
		printJSON(payments)
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tSTATUS\tAMOUNT\tCREATED")
	for _, p := range payments {
		created := ""
		if !p.CreatedAt.IsZero() {
			created = p.CreatedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", p.OrderID, p.Status, p.Amount, created)
	}
	w.Flush()
	fmt.Printf("\n%d payments\n", len(payments))
}

func renderPaymentStatus(status string) string {
	switch strings.ToLower(status) {
	case "success":
		return ui.RenderSuccess(status)
	case "failed":
		return ui.RenderFailure(status)
	default:
		return ui.RenderMuted(status)
	}
}
