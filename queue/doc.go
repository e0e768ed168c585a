/*
Package queue relays opaque string messages through a durable queue.

Receive removes the message it returns: the transport hides the message from
other receivers, the relay deletes it, and only then is the payload handed to
the caller. Messages whose delete fails are delivered again later, so
receivers must tolerate duplicates. Nothing is kept after Receive returns; a
receiver that fails while handling a payload loses that message.

Payloads are free form. Event gives them a recommended flat JSON shape:

	payload, _ := queue.Event{"OrderId": id, "Status": "Shipped"}.Encode()
	err := relay.Send(ctx, "orders-notifications", payload)

	payload, ok, err := relay.Receive(ctx, "orders-notifications")
	status, _ := queue.Field(payload, "Status")

Transports:
  - sqsqueue: Amazon SQS
  - redisqueue: Redis lists with a processing list per queue
  - mock: in-memory implementation for testing
*/
package queue
