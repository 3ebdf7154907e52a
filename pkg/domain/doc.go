/*
Package domain contains the core models of the payment-method form.

It defines the selectable countries, the opaque payment-method rows, the workflow
state owned by the controller, the events that drive it and the requests it emits.
The package is kept pure and free of I/O, transport or persistence concerns.

# Key Entities

  - Country: A selectable residence (value = ISO code, label = display name).
  - State: The workflow snapshot (Phase, Countries, Selection, Methods).
  - Event: One input to the controller (response arrival or user action).
  - Request: An outbound message the host must send on the connection.
  - View: The projection of a State onto the visible controls.
*/
package domain
