package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/deuceleague/appcore/internal/client"
	"github.com/deuceleague/appcore/internal/events"
	"github.com/deuceleague/appcore/internal/idgen"
	"github.com/deuceleague/appcore/internal/payment"
	"github.com/deuceleague/appcore/internal/ui"
)

var paymentCmd = &cobra.Command{
	Use:   "payment",
	Short: "Drive the payment handoff flow",
}

var paymentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a checkout for a season registration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if userID == "" {
			return fmt.Errorf("--user is required to create a payment")
		}
		seasonID, _ := cmd.Flags().GetString("season")
		leagueID, _ := cmd.Flags().GetString("league")
		amount, _ := cmd.Flags().GetFloat64("amount")
		desc, _ := cmd.Flags().GetString("desc")

		correlationID, err := idgen.Generate()
		if err != nil {
			return err
		}
		resp, err := backend.CreatePayment(cmd.Context(), &client.CreatePaymentRequest{
			SeasonID:      seasonID,
			LeagueID:      leagueID,
			Amount:        amount,
			BillDesc:      desc,
			UserID:        userID,
			CorrelationID: correlationID,
		})
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("payment creation rejected: %s", resp.Error)
		}

		if err := publisher.Publish(cmd.Context(), events.TopicPaymentCreated, events.PaymentCreated{
			OrderID: resp.OrderID,
			UserID:  userID,
			Amount:  resp.Amount,
		}); err != nil {
			logger.Debug("payment: event publish failed", "err", err)
		}

		if jsonOutput {
			printJSON(resp)
			return nil
		}
		fmt.Printf("Order:    %s\n", resp.OrderID)
		fmt.Printf("Amount:   %.2f\n", resp.Amount)
		fmt.Printf("Checkout: %s\n", ui.RenderAccent(resp.PaymentURL))
		fmt.Printf("\nOpen the checkout URL, then run 'dl payment watch %s --user %s'\n", resp.OrderID, userID)
		return nil
	},
}

var paymentStatusCmd = &cobra.Command{
	Use:   "status <orderId>",
	Short: "Check an order's status once",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if userID == "" {
			return fmt.Errorf("--user is required to check payment status")
		}
		resp, err := backend.PaymentStatus(cmd.Context(), args[0], userID)
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("status check rejected: %s", resp.Error)
		}
		printPayment(resp.Payment)
		return nil
	},
}

var paymentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's payments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if userID == "" {
			return fmt.Errorf("--user is required to list payments")
		}
		resp, err := backend.UserPayments(cmd.Context(), userID)
		if err != nil {
			return err
		}
		printPaymentTable(resp.Payments)
		return nil
	},
}

var paymentWatchCmd = &cobra.Command{
	Use:   "watch <orderId>",
	Short: "Watch an order until it reaches a terminal state",
	Long: `Watch an order until it reaches a terminal state. With a NATS URL
configured, terminal states arrive as events; otherwise the backend is
polled on the configured interval, matching the in-app pending screen.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orderID := args[0]
		interval, _ := cmd.Flags().GetDuration("interval")
		if interval == 0 {
			interval = cfg.PollInterval
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		if url := natsURL(); url != "" {
			return watchNATS(ctx, url, orderID)
		}
		return watchPoll(ctx, interval, orderID)
	},
}

// watchPoll runs the same poller the in-app pending screen uses.
func watchPoll(ctx context.Context, interval time.Duration, orderID string) error {
	if userID == "" {
		return fmt.Errorf("--user is required to poll payment status")
	}
	p := payment.NewPoller(payment.PollerConfig{
		Backend:   backend,
		OrderID:   orderID,
		UserID:    userID,
		Interval:  interval,
		Publisher: publisher,
		Logger:    logger,
	})

	result := make(chan payment.State, 1)
	p.Start(ctx, func(st payment.State) { result <- st })
	defer p.Stop()

	fmt.Printf("watching order %s (every %s, ctrl-c to stop)\n", orderID, interval)
	select {
	case <-ctx.Done():
		return nil
	case st := <-result:
		printWatchOutcome(orderID, st.String())
		return nil
	}
}

// watchNATS waits for a terminal payment event on the bus instead of polling.
func watchNATS(ctx context.Context, url, orderID string) error {
	sub, err := events.NewNATSSubscriber(url,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(events.TopicPaymentStatus)
	if err != nil {
		return fmt.Errorf("subscribing to payment events: %w", err)
	}
	defer cancel()

	fmt.Printf("watching order %s on the event bus (ctrl-c to stop)\n", orderID)
	for {
		select {
		case <-ctx.Done():
			return nil
		case data, ok := <-ch:
			if !ok {
				return nil
			}
			var ev events.PaymentStatus
			if err := json.Unmarshal(data, &ev); err != nil {
				logger.Warn("payment: bad event payload", "err", err)
				continue
			}
			if ev.OrderID != orderID {
				continue
			}
			if payment.ParseState(ev.Status).Terminal() {
				printWatchOutcome(orderID, ev.Status)
				return nil
			}
		}
	}
}

func printWatchOutcome(orderID, status string) {
	if jsonOutput {
		printJSON(struct {
			OrderID string `json:"orderId"`
			Status  string `json:"status"`
		}{orderID, status})
		return
	}
	fmt.Printf("order %s: %s\n", orderID, renderPaymentStatus(status))
}

func init() {
	paymentCreateCmd.Flags().String("season", "", "season id to register for")
	paymentCreateCmd.Flags().String("league", "", "league id the season belongs to")
	paymentCreateCmd.Flags().Float64("amount", 0, "payment amount")
	paymentCreateCmd.Flags().String("desc", "", "bill description shown at checkout")
	_ = paymentCreateCmd.MarkFlagRequired("season")
	_ = paymentCreateCmd.MarkFlagRequired("league")
	_ = paymentCreateCmd.MarkFlagRequired("amount")

	paymentWatchCmd.Flags().Duration("interval", 0, "polling interval (default from DEUCE_PAYMENT_POLL_INTERVAL)")

	paymentCmd.AddCommand(paymentCreateCmd)
	paymentCmd.AddCommand(paymentStatusCmd)
	paymentCmd.AddCommand(paymentListCmd)
	paymentCmd.AddCommand(paymentWatchCmd)
}
