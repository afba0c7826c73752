// Package dispatch implements the indirect-call side of signature checking.
//
// A Table holds function references, each tagged with the SigIndex its
// signature received from a sigreg.Registry. An indirect call names the
// handle the call site expects and a slot; Lookup compares the two handles
// and traps on mismatch:
//
//	tbl := dispatch.NewTable(4, nil)
//	tbl.Set(0, &dispatch.FuncRef{Name: "add", Type: addSig, Invoke: add})
//	err := tbl.CallIndirect(ctx, addSig, 0, stack)
//
// Handles are only comparable when they come from the same Registry. Attach
// it with WithRegistry to get both signatures spelled out in trap messages.
//
// # Thread Safety
//
// Lookup and CallIndirect may run concurrently with each other. Set, Grow
// and Init mutate the table and must not run concurrently with anything else
// on the same Table.
package dispatch
