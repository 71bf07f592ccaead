package domain

// MessageBus carries inbound messages from the update source to the reply router.
type MessageBus interface {
	Publish(msg InboundMessage)
	Subscribe() <-chan InboundMessage
	Close()
}
