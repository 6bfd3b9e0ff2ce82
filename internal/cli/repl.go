package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/haozl/sheetwright/internal/catalog"
	"github.com/haozl/sheetwright/internal/config"
	"github.com/haozl/sheetwright/internal/logger"
	"github.com/haozl/sheetwright/internal/policy"
	"github.com/haozl/sheetwright/internal/session"
)

// runSession is the interactive loop. A turn failure is reported and the
// loop continues; only exit, EOF, or a signal ends the session.
func runSession(ctx context.Context, review bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pol, err := policy.Load(cfg.PolicyPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogDir)
	if err != nil {
		return err
	}

	sess, err := session.New(cfg, log, pol, session.Options{Review: review})
	if err != nil {
		log.Close()
		return err
	}
	reason := "exit"
	defer func() { sess.Close(reason) }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("sheetwright session (input: %s, output: %s)\n", cfg.InputDir, cfg.OutputDir)
	fmt.Println("Type an instruction, 'list' to rescan inputs, or 'exit' to quit.")
	printCatalog(sess)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Print("> ")
		select {
		case <-ctx.Done():
			fmt.Println()
			reason = "interrupt"
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Println()
				return nil
			}
			instruction := strings.TrimSpace(line)
			switch strings.ToLower(instruction) {
			case "":
				continue
			case "exit", "quit":
				return nil
			case "list":
				printCatalog(sess)
				continue
			}
			runTurn(ctx, sess, instruction)
		}
	}
}

func runTurn(ctx context.Context, sess *session.Session, instruction string) {
	turn, err := sess.RunTurn(ctx, instruction)
	if err == nil {
		if out := strings.TrimSpace(turn.Result.Stdout); out != "" {
			fmt.Println(out)
		}
		fmt.Printf("done (%.1fs)\n", turn.Result.Elapsed.Seconds())
		return
	}

	var resolution *catalog.ResolutionError
	var validation *session.ValidationError
	var declined *session.ReviewDeclined
	var execution *session.ExecutionError
	switch {
	case errors.As(err, &resolution):
		fmt.Println(resolution.Error())
	case errors.As(err, &validation):
		fmt.Println(validation.Error())
		fmt.Println("Nothing was executed. Rephrase the instruction and try again.")
	case errors.As(err, &declined):
		fmt.Println("Script discarded; nothing was executed.")
	case errors.As(err, &execution):
		fmt.Println(execution.Error())
		if diag := strings.TrimSpace(execution.Result.Stderr); diag != "" {
			fmt.Println(diag)
		}
	default:
		fmt.Printf("turn failed: %v\n", err)
	}
}

func printCatalog(sess *session.Session) {
	cat, err := sess.Catalog()
	if err != nil {
		fmt.Printf("cannot read input directory: %v\n", err)
		return
	}
	fmt.Println(cat.Describe())
}
