package observe_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/rivulet-engine/rivulet/observe"
)

func ExampleNewObserver() {
	cfg := observe.Config{
		ServiceName: "example-service",
		Version:     "1.0.0",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     observe.MetricsConfig{Enabled: false},
		Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
	}

	ctx := context.Background()
	obs, err := observe.NewObserver(ctx, cfg)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer func() {
		_ = obs.Shutdown(ctx)
	}()

	fmt.Println("Observer created successfully")
	// Output:
	// Observer created successfully
}

func ExampleNewObserver_validation() {
	// Missing service name triggers validation error
	cfg := observe.Config{
		ServiceName: "", // Empty - will fail validation
	}

	ctx := context.Background()
	_, err := observe.NewObserver(ctx, cfg)
	if errors.Is(err, observe.ErrMissingServiceName) {
		fmt.Println("Caught: missing service name")
	}
	// Output:
	// Caught: missing service name
}

func ExampleConfig_Validate() {
	// Valid configuration
	cfg := observe.Config{
		ServiceName: "my-service",
		Version:     "1.0.0",
		Tracing: observe.TracingConfig{
			Enabled:   true,
			Exporter:  "stdout",
			SamplePct: 0.5, // 50% sampling
		},
		Metrics: observe.MetricsConfig{
			Enabled:  true,
			Exporter: "prometheus",
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
	}

	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid:", err)
	} else {
		fmt.Println("Configuration is valid")
	}
	// Output:
	// Configuration is valid
}

func ExampleItemMeta_SpanName() {
	// With pipeline
	meta := observe.ItemMeta{
		Name:      "create_issue",
		Pipeline: "github",
	}
	fmt.Println(meta.SpanName())

	// Without pipeline
	meta2 := observe.ItemMeta{
		Name: "read_file",
	}
	fmt.Println(meta2.SpanName())
	// Output:
	// item.process.github.create_issue
	// item.process.read_file
}

func ExampleItemMeta_ItemID() {
	// With explicit ID
	meta := observe.ItemMeta{
		ID:        "custom:item:id",
		Name:      "ignored",
		Pipeline: "ignored",
	}
	fmt.Println(meta.ItemID())

	// With pipeline (ID constructed)
	meta2 := observe.ItemMeta{
		Name:      "search",
		Pipeline: "github",
	}
	fmt.Println(meta2.ItemID())

	// Without pipeline
	meta3 := observe.ItemMeta{
		Name: "read_file",
	}
	fmt.Println(meta3.ItemID())
	// Output:
	// custom:item:id
	// github.search
	// read_file
}

func ExampleItemMeta_Validate() {
	// Valid metadata
	meta := observe.ItemMeta{
		Name:      "create_issue",
		Pipeline: "github",
		Version:   "1.0.0",
	}
	if err := meta.Validate(); err != nil {
		fmt.Println("Invalid:", err)
	} else {
		fmt.Println("Valid item metadata")
	}

	// Invalid - missing name
	meta2 := observe.ItemMeta{
		Pipeline: "github",
	}
	if errors.Is(meta2.Validate(), observe.ErrMissingItemName) {
		fmt.Println("Caught: missing item name")
	}
	// Output:
	// Valid item metadata
	// Caught: missing item name
}

func ExampleNewLoggerWithWriter() {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("info", &buf)

	ctx := context.Background()
	logger.Info(ctx, "application started", observe.Field{Key: "version", Value: "1.0.0"})

	// Output contains JSON with timestamp, level, msg, and version field
	fmt.Println("Logged message contains 'application started':", bytes.Contains(buf.Bytes(), []byte("application started")))
	// Output:
	// Logged message contains 'application started': true
}

func ExampleLogger_WithItem() {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("info", &buf)

	meta := observe.ItemMeta{
		Name:      "search",
		Pipeline: "github",
		Version:   "2.0.0",
	}

	// Create item-scoped logger
	itemLogger := logger.WithItem(meta)

	ctx := context.Background()
	itemLogger.Info(ctx, "item execution started")

	// Output contains item context
	output := buf.String()
	fmt.Println("Contains item.name:", bytes.Contains([]byte(output), []byte("item.name")))
	fmt.Println("Contains item.pipeline:", bytes.Contains([]byte(output), []byte("item.pipeline")))
	// Output:
	// Contains item.name: true
	// Contains item.pipeline: true
}

func ExampleMiddleware_Wrap() {
	ctx := context.Background()

	// Create observer with disabled exporters for example
	cfg := observe.Config{
		ServiceName: "example",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     observe.LoggingConfig{Enabled: false},
	}
	obs, _ := observe.NewObserver(ctx, cfg)
	defer func() {
		_ = obs.Shutdown(ctx)
	}()

	// Create middleware
	mw, _ := observe.MiddlewareFromObserver(obs)

	// Define execution function
	execFn := func(ctx context.Context, item observe.ItemMeta, input any) (any, error) {
		return map[string]string{"status": "success"}, nil
	}

	// Wrap with observability
	wrapped := mw.Wrap(execFn)

	// Execute - automatically traced, metered, and logged
	result, err := wrapped(ctx, observe.ItemMeta{
		Name:      "example_tool",
		Pipeline: "demo",
	}, nil)

	if err != nil {
		fmt.Println("Error:", err)
	} else {
		fmt.Printf("Result: %v\n", result)
	}
	// Output:
	// Result: map[status:success]
}

func ExampleParseLogLevel() {
	levels := []string{"debug", "info", "warn", "error", "unknown"}
	for _, s := range levels {
		level := observe.ParseLogLevel(s)
		fmt.Printf("%s -> %s\n", s, level)
	}
	// Output:
	// debug -> debug
	// info -> info
	// warn -> warn
	// error -> error
	// unknown -> info
}
