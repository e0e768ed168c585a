// Package sqsqueue implements queue.Transport on Amazon SQS.
//
// Queue URLs are resolved by name on each call. Receive asks for a single
// message and does not long poll unless WithWaitTime is set.
package sqsqueue
