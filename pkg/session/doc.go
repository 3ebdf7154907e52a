/*
Package session hosts mounted forms.

Manager serializes access to each form's state, combining per-form in-process
mutexes with an optional distributed lock so replicas sharing a store do not
interleave read-modify-write cycles.

Hub runs many forms over one upstream connection. It assigns each form an ID,
rewrites request IDs so they are unique on the shared connection, and routes
every response back to the form that asked for it.
*/
package session
