package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/socialsoftware/quiz_tutor/database"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// QuizAvailableEvent is pushed to every connected student of a course
// execution when a quiz becomes available to take.
type QuizAvailableEvent struct {
	Type              string    `json:"type"`
	QuizID            uuid.UUID `json:"quiz_id"`
	CourseExecutionID uuid.UUID `json:"course_execution_id"`
	Title             string    `json:"title"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan QuizAvailableEvent)

func RunHub() {
	for {
		select {
		case client := <-Register:
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case event := <-Broadcast:
			var enrolledIDs []uuid.UUID
			err := database.DB.
				Table("user_course_executions").
				Where("course_execution_id = ?", event.CourseExecutionID).
				Pluck("user_id", &enrolledIDs).Error
			if err != nil {
				log.Printf("Error fetching enrolled user IDs for execution %s: %v", event.CourseExecutionID, err)
				continue
			}

			clientsMu.RLock()
			var stale []uuid.UUID
			for _, userID := range enrolledIDs {
				if conn, ok := clients[userID]; ok {
					if err := conn.WriteJSON(event); err != nil {
						log.Printf("Error pushing quiz event to client %s: %v", userID, err)
						conn.Close()
						stale = append(stale, userID)
					}
				}
			}
			clientsMu.RUnlock()

			if len(stale) > 0 {
				clientsMu.Lock()
				for _, userID := range stale {
					delete(clients, userID)
				}
				clientsMu.Unlock()
			}
		}
	}
}

// NotifyQuizAvailable hands a quiz-available event to the hub without blocking
// the caller's request.
func NotifyQuizAvailable(quizID, executionID uuid.UUID, title string) {
	go func() {
		Broadcast <- QuizAvailableEvent{
			Type:              "quiz.available",
			QuizID:            quizID,
			CourseExecutionID: executionID,
			Title:             title,
		}
	}()
}
