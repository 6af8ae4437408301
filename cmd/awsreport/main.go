// Command awsreport collects the EC2 inventory and the previous day's cost for
// an AWS account, renders them into a dated PDF and uploads it to S3.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pankaj-dahiya-devops/aws-report/internal/providers/aws/common"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if code := common.APIErrorCode(err); code != "" {
			fmt.Fprintf(os.Stderr, "(AWS error code: %s)\n", code)
		}
		os.Exit(1)
	}
}
