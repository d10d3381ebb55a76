package feed

import "sync"

// Subscription recebe os valores publicados no Hub enquanto estiver inscrita.
type Subscription[T any] struct {
	ch chan T
}

// C devolve o canal de entrega. Ele é fechado quando a inscrição é cancelada.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Hub distribui cada valor para todos os inscritos. A entrega não bloqueia: um inscrito com o
// buffer cheio perde o valor.
type Hub[T any] struct {
	mu     sync.RWMutex
	subs   map[*Subscription[T]]struct{}
	closed bool
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[*Subscription[T]]struct{})}
}

// Subscribe inscreve um novo ouvinte com o buffer informado. Depois de Close, a inscrição já
// nasce com o canal fechado.
func (h *Hub[T]) Subscribe(buffer int) *Subscription[T] {
	sub := &Subscription[T]{ch: make(chan T, buffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(sub.ch)
		return sub
	}
	h.subs[sub] = struct{}{}
	return sub
}

// Unsubscribe cancela a inscrição e fecha o canal dela. Chamar duas vezes não tem efeito.
func (h *Hub[T]) Unsubscribe(sub *Subscription[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.ch)
}

func (h *Hub[T]) Broadcast(value T) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		select {
		case sub.ch <- value:
		default:
		}
	}
}

// Len devolve o número de inscritos.
func (h *Hub[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close fecha todas as inscrições; novas publicações são descartadas.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		delete(h.subs, sub)
		close(sub.ch)
	}
}
