package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tournevent/easypost/internal/server"
	"github.com/tournevent/easypost/pkg/easypost"
	"go.uber.org/zap"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "easypost",
	Short:   "EasyPost SDK tooling - resource CRUD and webhook verification",
	Version: version,
}

var retrieveCmd = &cobra.Command{
	Use:   "retrieve <type> <id>",
	Short: "Retrieve a single resource by id",
	Args:  cobra.ExactArgs(2),
	RunE:  runRetrieve,
}

var listCmd = &cobra.Command{
	Use:   "list <type>",
	Short: "List a resource collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <type> <id>",
	Short: "Delete a resource by id",
	Args:  cobra.ExactArgs(2),
	RunE:  runDelete,
}

var verifyCmd = &cobra.Command{
	Use:   "verify [body-file]",
	Short: "Verify a webhook payload signature (reads stdin when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runVerify,
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Run the webhook receiver",
	RunE:  runListen,
}

var (
	verifySignature string
	listPageSize    int
)

func init() {
	verifyCmd.Flags().StringVar(&verifySignature, "signature", "", "value of the X-Hmac-Signature header")
	listCmd.Flags().IntVar(&listPageSize, "page-size", 0, "number of records per page")

	rootCmd.AddCommand(retrieveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(listenCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close(ctx)

	svc, err := serviceFor(env.api, args[0])
	if err != nil {
		return err
	}

	r, err := svc.Retrieve(ctx, args[1])
	if err != nil {
		return fmt.Errorf("retrieving %s %s: %w", args[0], args[1], err)
	}
	return printJSON(cmd.OutOrStdout(), r.ToJSON())
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close(ctx)

	svc, err := serviceFor(env.api, args[0])
	if err != nil {
		return err
	}

	query := url.Values{}
	if listPageSize > 0 {
		query.Set("page_size", fmt.Sprint(listPageSize))
	}

	collection, err := svc.All(ctx, query)
	if err != nil {
		return fmt.Errorf("listing %s: %w", args[0], err)
	}

	items := make([]map[string]any, 0, len(collection.Items))
	for _, item := range collection.Items {
		items = append(items, item.ToJSON())
	}
	return printJSON(cmd.OutOrStdout(), map[string]any{
		collection.Key: items,
		"has_more":     collection.HasMore,
	})
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close(ctx)

	svc, err := serviceFor(env.api, args[0])
	if err != nil {
		return err
	}

	if err := svc.Delete(ctx, args[1]); err != nil {
		return fmt.Errorf("deleting %s %s: %w", args[0], args[1], err)
	}
	env.logger.Info("Deleted resource",
		zap.String("type", args[0]),
		zap.String("id", args[1]),
	)
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var body []byte
	if len(args) == 1 && args[0] != "-" {
		body, err = os.ReadFile(args[0])
	} else {
		body, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("reading webhook body: %w", err)
	}

	headers := http.Header{}
	headers.Set(easypost.SignatureHeader, verifySignature)

	event, err := easypost.ValidateWebhook(body, headers, cfg.WebhookSecret)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), event)
}

func runListen(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close(ctx)

	env.logger.Info("Starting EasyPost webhook receiver",
		zap.Int("port", env.cfg.Port),
		zap.String("version", env.cfg.Version),
	)

	srv := server.New(server.Config{
		Port:          env.cfg.Port,
		WebhookSecret: env.cfg.WebhookSecret,
	}, nil, env.logger, env.metrics)

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
