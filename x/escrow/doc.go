/*
Package escrow implements a two party exchange of coins.

A maker locks a deposit of one currency in a vault and names the amount
of another currency it wants in return. Any taker can complete the trade
by paying that amount to the maker, which releases the deposit to the
taker. Until then the maker can refund the deposit.

The escrow record and its vault live at derived addresses. The record
address is derived from the maker and a seed chosen by the maker, the
vault address from the record address and the deposited currency. No key
exists for either of them, so only this extension can move the funds,
and only after it reproduced the derivation from the stored bumps.

Take and refund both destroy the record, so at most one of them succeeds
for a given escrow. Rent paid by the maker when the escrow is made is
returned when the record and the vault are destroyed.
*/
package escrow
