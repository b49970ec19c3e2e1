// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"time"
)

// runStatus checks that the service answers at its base URL.
func runStatus(ctx context.Context, args Args, env *Env) error {
	client := newClient(args, env.Config)

	start := time.Now()
	err := client.CheckRunning(ctx)
	latency := time.Since(start)

	if args.JSON {
		if err != nil {
			return err
		}
		return NewJSONResponse("status", StatusData{
			BaseURL:   client.BaseURL(),
			Reachable: true,
			LatencyMS: latency.Milliseconds(),
		}).Write(env.Stdout)
	}

	if err != nil {
		fmt.Fprintln(env.Stdout, renderField("Service", client.BaseURL()))
		fmt.Fprintln(env.Stdout, renderField("Status", ErrorStyle.Render("unreachable")))
		return err
	}
	fmt.Fprintln(env.Stdout, renderField("Service", client.BaseURL()))
	fmt.Fprintln(env.Stdout, renderField("Status", SuccessStyle.Render("reachable")))
	fmt.Fprintln(env.Stdout, renderField("Latency", latency.Round(time.Millisecond).String()))
	return nil
}
