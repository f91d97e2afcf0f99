// Command giftctl inspects a wishlist store from the command line.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"giftlist/internal/bootstrap"
	"giftlist/internal/config"
	"giftlist/internal/models"
	"giftlist/internal/service"
)

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  giftctl [-json] view <viewer_id> <target_id>   - Show a list as viewer sees it")
	fmt.Println("  giftctl [-json] friends <user_id>              - List friends and pending requests")
	fmt.Println("  giftctl [-json] tombstones <user_id>           - List deleted gifts the user acted on")
	fmt.Println("  giftctl ack <gift_id> <user_id>                - Acknowledge a deleted gift")
	fmt.Println("  giftctl watch                                  - Print notifications as they arrive")
}

func main() {
	asJSON := flag.Bool("json", false, "Print results as JSON")
	flag.Parse()
	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	rt, err := bootstrap.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialise runtime: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, rt, *asJSON, flag.Args())
	stop()
	_ = rt.Shutdown(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v (%s)\n", err, models.ErrorCode(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, rt *bootstrap.Runtime, asJSON bool, args []string) error {
	svc := rt.Services
	switch args[0] {
	case "view":
		ids, err := parseIDs(args[1:], 2)
		if err != nil {
			return err
		}
		view, err := svc.Visibility.View(ctx, ids[0], ids[1])
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(view)
		}
		printView(view)

	case "friends":
		ids, err := parseIDs(args[1:], 1)
		if err != nil {
			return err
		}
		friends, err := svc.Friends.ListFriends(ctx, ids[0])
		if err != nil {
			return err
		}
		received, err := svc.Friends.ListReceived(ctx, ids[0])
		if err != nil {
			return err
		}
		initiated, err := svc.Friends.ListInitiated(ctx, ids[0])
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(map[string]any{"friends": friends, "received": received, "initiated": initiated})
		}
		fmt.Printf("\n👥 Friends of %d:\n", ids[0])
		for _, f := range friends {
			fmt.Printf("  ID: %d | Name: %s\n", f.ID, f.Name)
		}
		fmt.Println("📨 Pending requests:")
		for _, r := range received {
			fmt.Printf("  from %d (request %d)\n", r.UserOneID, r.ID)
		}
		for _, r := range initiated {
			fmt.Printf("  to %d (request %d)\n", r.UserTwoID, r.ID)
		}

	case "tombstones":
		ids, err := parseIDs(args[1:], 1)
		if err != nil {
			return err
		}
		list, err := svc.Tombstones.ListForActor(ctx, ids[0])
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(list)
		}
		if len(list) == 0 {
			fmt.Println("No deleted gifts to acknowledge")
			return nil
		}
		fmt.Println("\n🪦 Deleted gifts:")
		fmt.Println("─────────────────────────────────────")
		for _, ts := range list {
			fmt.Printf("Gift: %d | %s | owner %d marked %s | interested=%t action=%s\n",
				ts.GiftID, ts.Name, ts.OwnerUserID, ts.OwnerStatus, ts.Interested, ts.Action)
		}
		fmt.Println("─────────────────────────────────────")

	case "ack":
		ids, err := parseIDs(args[1:], 2)
		if err != nil {
			return err
		}
		if err := svc.Tombstones.Acknowledge(ctx, ids[0], ids[1]); err != nil {
			return err
		}
		fmt.Printf("✅ Acknowledged gift %d for user %d\n", ids[0], ids[1])

	case "watch":
		if rt.Redis == nil {
			return errors.New("watch needs REDIS_URL")
		}
		if err := rt.Notifier.StartUserSubscriber(ctx, func(channel, payload string) {
			fmt.Printf("%s %s\n", channel, payload)
		}); err != nil {
			return err
		}
		fmt.Println("Watching notifications, Ctrl+C to stop")
		<-ctx.Done()

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}

func parseIDs(args []string, n int) ([]uint, error) {
	if len(args) < n {
		return nil, fmt.Errorf("expected %d ids, got %d", n, len(args))
	}
	ids := make([]uint, 0, n)
	for _, a := range args[:n] {
		id, err := strconv.ParseUint(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", a, err)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printView(view *service.ListView) {
	fmt.Printf("\n🎁 List of %d as seen by %d\n", view.Scope.TargetID, view.Scope.ViewerID)
	for _, c := range view.Categories {
		fmt.Printf("\n%d. %s\n", c.Rank, c.Name)
		for _, g := range c.Gifts {
			marker := ""
			if g.Secret {
				marker = " 🤫"
			}
			fmt.Printf("   #%d %s%s\n", g.ID, g.Name, marker)
			for _, a := range g.Actions {
				fmt.Printf("      user %d interested=%t buy=%s\n", a.UserID, a.Interested, a.Buy)
			}
		}
	}
}
