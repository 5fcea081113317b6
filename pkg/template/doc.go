// Package template renders notification titles and messages from event
// contexts.
//
// Each event type code maps to a RenderFunc. The Placeholder helper covers the common case of {key} substitution with required keys;
// custom render functions handle anything richer.
//
//	reg := template.Defaults()
//	reg.MustRegister("invoice_paid", template.Placeholder(
//	    "Invoice {invoice_id} paid",
//	    "Received {amount} for invoice {invoice_id}.",
//	))
//
//	title, message, err := reg.Render("invoice_paid", map[string]any{
//	    "invoice_id": "INV-42",
//	    "amount":     "$99.00",
//	})
//
// Rendering happens once per dispatch, before any rows are written: a
// missing context key aborts the whole dispatch rather than producing
// partially rendered notifications.
package template
