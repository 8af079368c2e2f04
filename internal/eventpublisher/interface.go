package eventpublisher

type Publisher[T any] interface {
	Subscribe(chan<- T)
	Unsubscribe(chan<- T)
}
