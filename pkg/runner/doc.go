/*
Package runner drives one payment-method form from an interactive shell.

It serializes user commands and connection events through a single loop, so
the form never observes two inputs at once. Output and input go through an
IOHandler: TextHandler for humans (markdown, optionally rendered for the
terminal) and JSONHandler for programs (newline-delimited JSON).

# Usage

	conn, _ := websocket.Dial(ctx, websocket.DefaultEndpoint)
	r := runner.NewRunner(
		runner.WithEngine(paylist.New()),
		runner.WithConnection(conn),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
