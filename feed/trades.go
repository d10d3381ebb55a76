package feed

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/ferreirogomes/fracoes/models"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Message é o envelope enviado aos clientes do websocket.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// TradeFeed publica as liquidações confirmadas para os clientes conectados por websocket.
type TradeFeed struct {
	hub      *Hub[models.TradeResult]
	buffer   int
	upgrader websocket.Upgrader
}

// NewTradeFeed cria o feed. buffer é o tamanho da fila de cada cliente.
func NewTradeFeed(buffer int) *TradeFeed {
	if buffer <= 0 {
		buffer = 64
	}
	return &TradeFeed{
		hub:      NewHub[models.TradeResult](),
		buffer:   buffer,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
}

// Publish entrega a liquidação a todos os clientes sem bloquear quem publica.
func (f *TradeFeed) Publish(result models.TradeResult) {
	f.hub.Broadcast(result)
}

// Subscribe inscreve um ouvinte direto no feed (usado pelo websocket e por testes).
func (f *TradeFeed) Subscribe() *Subscription[models.TradeResult] {
	return f.hub.Subscribe(f.buffer)
}

func (f *TradeFeed) Unsubscribe(sub *Subscription[models.TradeResult]) {
	f.hub.Unsubscribe(sub)
}

// Close desconecta todos os clientes.
func (f *TradeFeed) Close() {
	f.hub.Close()
}

// ServeHTTP transmite as negociações pelo websocket. ?asset_id=N restringe a um ativo.
func (f *TradeFeed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var assetID int64
	if v := r.URL.Query().Get("asset_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "asset_id inválido", http.StatusBadRequest)
			return
		}
		assetID = id
	}

	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Erro ao abrir websocket: %v", err)
		return
	}
	defer conn.Close()

	sub := f.Subscribe()
	defer f.Unsubscribe(sub)

	// o cliente não envia nada; a leitura só serve para perceber a desconexão
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case trade, ok := <-sub.C():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
				return
			}
			if assetID != 0 && trade.AssetID != assetID {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(Message{Type: "trade", Data: trade}); err != nil {
				return
			}
		}
	}
}
