package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	grpcTransport "vetcare/backend/internal/transport/grpc"
)

var CLI struct {
	Version kong.VersionFlag
	Addr    string        `help:"Scheduling server gRPC address." default:"127.0.0.1:50051" env:"VETCARE_GRPC_ADDR"`
	Timeout time.Duration `help:"Per-call timeout." default:"10s"`

	Slots    SlotsCmd    `cmd:"" help:"List open slots for a vet on a date."`
	Book     BookCmd     `cmd:"" help:"Book a slot."`
	Cancel   CancelCmd   `cmd:"" help:"Cancel an appointment."`
	Complete CompleteCmd `cmd:"" help:"Mark an appointment completed."`
	Get      GetCmd      `cmd:"" help:"Show one appointment."`
	List     ListCmd     `cmd:"" help:"List appointments for an owner or vet."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("vetcarectl"),
		kong.Description("Command line client for the vetcare scheduling service"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	conn, err := grpc.NewClient(CLI.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	appCtx := &Context{
		Client:  grpcTransport.NewSchedulingClient(conn),
		Timeout: CLI.Timeout,
		Out:     os.Stdout,
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		conn.Close()
		os.Exit(1)
	}
}
