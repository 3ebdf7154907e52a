/*
Package ports defines the driven ports (interfaces) of the payment-method form.

These interfaces decouple the workflow from external implementations, allowing the
same engine to run over a real websocket, an in-memory loopback or a shared
connection multiplexed between many forms.

# Key Interfaces

  - Connection: The open message channel (send a request, receive classified events).
  - FormEngine: The stateless workflow core used by adapters (Hub, HTTP, MCP).
  - StateStore: Keeps the state of mounted forms between calls (server mode).
  - DistributedLocker: Serializes access to one form across instances.
*/
package ports
