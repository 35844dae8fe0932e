package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"gramture-service/internal/app"
	"gramture-service/internal/domain"
	"github.com/gorilla/websocket"
)

// QuizWSHandler drives one quiz session per websocket connection.
type QuizWSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewQuizWSHandler(service *app.QuizService) *QuizWSHandler {
	return &QuizWSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Index  int `json:"index"`
	Option int `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type timerPayload struct {
	ElapsedSeconds int `json:"elapsedSeconds"`
}

type finishedPayload struct {
	Score          int                 `json:"score"`
	TotalQuestions int                 `json:"totalQuestions"`
	Percentage     float64             `json:"percentage"`
	Rating         domain.Rating       `json:"rating"`
	ElapsedSeconds int                 `json:"elapsedSeconds"`
	LoginRequired  bool                `json:"loginRequired,omitempty"`
	Certificate    *domain.Certificate `json:"certificate,omitempty"`
}

// ServeWS upgrades the request and runs the session loop. Query params:
// subCategory and topic select the question set; userId and name identify
// the (externally authenticated) user and may be empty for guests.
func (h *QuizWSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	subCategory := r.URL.Query().Get("subCategory")
	topicRef := r.URL.Query().Get("topic")
	if subCategory == "" || topicRef == "" {
		http.Error(w, "missing subCategory or topic", http.StatusBadRequest)
		return
	}
	user := domain.User{
		ID:    r.URL.Query().Get("userId"),
		Name:  r.URL.Query().Get("name"),
		Class: r.URL.Query().Get("class"),
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session, topic, err := h.service.StartSession(r.Context(), user, subCategory, topicRef)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.EndSession(user, subCategory, topicRef)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	tickerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// Timer events once per second until submit freezes the session.
	go func() {
		defer close(tickerDone)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if session.Finished() {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "timer", Payload: timerPayload{ElapsedSeconds: session.ElapsedSeconds()}}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "question", Payload: session.Current()}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errMsg("invalid answer payload")
				continue
			}
			if err := session.SelectAnswer(payload.Index, payload.Option); err != nil {
				send <- errMsg(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "question", Payload: session.Current()}

		case "skip":
			if err := session.Skip(); err != nil {
				send <- errMsg(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "question", Payload: session.Current()}

		case "next":
			if err := session.Next(); err != nil {
				send <- errMsg(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "question", Payload: session.Current()}

		case "prev":
			if err := session.Prev(); err != nil {
				send <- errMsg(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "question", Payload: session.Current()}

		case "submit":
			result, err := session.Submit()
			if err != nil {
				send <- errMsg(err.Error())
				continue
			}
			finished := finishedPayload{
				Score:          result.Score,
				TotalQuestions: result.TotalQuestions,
				Percentage:     result.Percentage,
				Rating:         result.Rating,
				ElapsedSeconds: result.ElapsedSeconds,
			}
			cert, err := h.service.Complete(r.Context(), user, topic, result)
			switch {
			case err == nil:
				finished.Certificate = &cert
			case errors.Is(err, domain.ErrLoginRequired):
				finished.LoginRequired = true
			default:
				// Transient: the quiz result still shows, the records
				// simply were not written. No retry.
				send <- errMsg(err.Error())
			}
			send <- outboundMessage[any]{Type: "finished", Payload: finished}

		case "results":
			result, err := session.Result()
			if err != nil {
				send <- errMsg("quiz not submitted yet")
				continue
			}
			send <- outboundMessage[any]{Type: "results", Payload: result}

		default:
			send <- errMsg("unsupported message type")
		}
	}

	close(closeSignals)
	<-tickerDone
	close(send)
	<-writerDone
}

func errMsg(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}
