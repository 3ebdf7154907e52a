/*
Package paylist implements a country selector that retrieves the payment methods
available for the chosen country over a persistent socket connection.

The core is a small deterministic state machine. It coordinates the arrival of the
country list, the user's selection, the "Get List" and "Clear" actions and the arrival
of payment-method lists, and projects the result onto three visible regions: the
dropdown, the button states and the result table.

# Concept

The Engine never performs I/O. Every call receives the current State and an Event and
returns the next State together with the Requests the host must send. The host
("shell") owns the connection, delivers inbound messages as events and renders the View.
This keeps the workflow embeddable in a terminal, an HTTP server or an MCP agent.

# Usage

	package main

	import (
		"context"
		"fmt"

		"github.com/aretw0/paylist"
		"github.com/aretw0/paylist/pkg/domain"
	)

	func main() {
		eng := paylist.New()
		ctx := context.Background()

		// Mount: one "list countries" request is emitted.
		state, reqs := eng.Mount(ctx)
		send(reqs)

		// Inbound messages and user actions are applied one at a time.
		state, _ = eng.Apply(ctx, state, domain.CountriesReceived(domain.Country{Value: "in", Label: "India"}))
		state, _ = eng.Apply(ctx, state, domain.SelectCountry("in"))
		state, reqs = eng.Apply(ctx, state, domain.Fetch())
		send(reqs)

		fmt.Println(eng.Render(state).FetchEnabled)
	}
*/
package paylist
