/*
Package swap implements ICS20 fungible token transfers extended with actions executed by the
receiving chain. A packet may instruct the receiver to swap the credited tokens through a pool
route, to lock them for a duration or to withdraw a matured lockup position. Failed actions are
downgraded to a plain credit and never fail the transfer.

Every token sent or received over a channel is accounted for in a (channel, denom) escrow
ledger that the acknowledgement or timeout of the packet finalizes or reverses.
*/
package swap
