// Package redisqueue implements queue.Transport with the Redis reliable
// queue pattern: LPUSH to send, RPOPLPUSH into a processing list to receive,
// and LREM from the processing list to acknowledge.
//
// Queues must be created before use; CreateQueue records them in a registry
// set so that sending to an unknown queue fails as it does on SQS.
//
// Lists have no visibility timeout. Deliveries that were never acknowledged
// stay in the processing list until Recover moves them back, which the facade
// exposes as RecoverMessages and the CLI as "retailstore queue recover".
package redisqueue
