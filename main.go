package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/dmorgan81/pairgen/internal/handler"
	"github.com/dmorgan81/pairgen/internal/inject"
	"github.com/dmorgan81/pairgen/internal/log"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/samber/do"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "loading .env:", err)
	}

	logger := log.New(os.Stderr, log.ParseLevel(os.Getenv("LOG_LEVEL")))
	ctx := log.NewContext(context.Background(), logger)
	injector := inject.Setup(ctx)
	handler := do.MustInvoke[*handler.Handler](injector)

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.StartWithOptions(handler.Handle, lambda.WithContext(ctx), lambda.WithEnableSIGTERM(func() {
			_ = injector.Shutdown()
		}))
		return
	}

	os.Exit(run(ctx, handler))
}

func run(ctx context.Context, h *handler.Handler) int {
	var input handler.Input
	flag.StringVar(&input.Left, "left", "", "prompt for the left image (random if empty)")
	flag.StringVar(&input.Right, "right", "", "prompt for the right image (random if empty)")
	flag.Parse()

	out, err := h.Handle(ctx, input)
	if err != nil {
		color.Red("publishing failed: %v", err)
		return 1
	}

	fmt.Printf("%s + %s -> %s\n", color.CyanString(out.Left), color.CyanString(out.Right), out.Page)
	if out.Error != "" {
		color.Yellow("generation error: %s", out.Error)
		return 2
	}
	color.Green("done")
	return 0
}
