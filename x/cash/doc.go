/*
Package cash defines a simple implementation of sending coins
between wallets.

There is no logic in the coins (tokens), except that the balance
of any coin may not go below zero. Thus, this implementation is
referred to as cash. Simple and safe.

Other extensions move funds through the Controller. A wallet can be
closed, which sends whatever it still holds to a beneficiary and removes
it from the store.
*/
package cash
