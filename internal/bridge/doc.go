// Package bridge implements the engine-to-host damage notification slot.
//
// A Bridge holds at most one Registration: an opaque context token plus a
// Handler. The host registers once during startup; the engine calls Notify
// from deep inside its loop whenever the player takes damage.
//
// # Contract
//
//   - Register overwrites the slot unconditionally. It never fails and never
//     validates its arguments; a nil Handler is the empty sentinel.
//   - Notify invokes the registered Handler synchronously on the caller's
//     goroutine with (context, amount). With no Handler registered it does
//     nothing. Amounts are forwarded as-is.
//   - There is no Unregister. Registering a nil Handler detaches the host.
//
// The context token is owned by the registrant and must stay valid for every
// Notify that can follow the Register call. The bridge never inspects it.
//
// # Threading
//
// Registration happens during a quiescent startup phase, before the engine
// loop runs. The slot is an atomically swapped pointer so a reader always sees
// a complete Registration, but concurrent Register/Notify is not part of the
// contract and no ordering between them is promised.
//
// Engines that are built against the bridge receive a *Bridge (or any
// Notifier) through their constructor. Engines that can only reach a
// package-level symbol use Default, Register and Notify.
package bridge
