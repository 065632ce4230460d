/*
Package errors declares the root errors of loom and the helpers to wrap and
inspect them.

Every error returned by a handler should wrap a root error. The root error
decides the ABCI code reported to the client, the wrapping adds context:

	if !vault.Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientFunds, "vault holds %s", vault)
	}

Extensions may register their own root errors with a unique code:

	var ErrDuplicateEscrow = errors.Register(1010, "escrow already exists")

Use Is to check the kind of a returned error. The first Wrap attaches a
stack trace that is printed with the %+v verb.
*/
package errors
