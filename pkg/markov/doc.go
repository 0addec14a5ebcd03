/*
Package markov provides a small, in-memory toolkit for building first-order
word Markov chains from plain text and sampling sentences from them.

Text is split into tokens by a Tokenizer. Each token carries a flag telling
whether it opened a sentence, and that flag is part of the token's identity:
"The" at the start of a sentence and "The" in the middle of one are tracked
as two different states. Training counts sentence openers and word-to-word
transitions, then normalizes both into probability tables. Sampling walks
those tables with inverse-CDF selection in a fixed key order, so the same
sequence of random draws always yields the same sentence.

A trained Model is immutable and may be shared by any number of goroutines.
*/
package markov
