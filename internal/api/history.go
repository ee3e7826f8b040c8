package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"validateai/backend/internal/auth"
	"validateai/backend/internal/scoring"
	"validateai/backend/internal/store"
)

const maxHistoryLimit = 200

func currentUser(c *gin.Context) string {
	user, _ := auth.UserFromContext(c)
	return user.ID
}

func (s *Server) handleListHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit <= 0 {
		limit = store.DefaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	rows, total, err := s.db.ListScores(c.Request.Context(), currentUser(c), limit)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	items := make([]HistoryItemDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, HistoryItemFromModel(row))
	}
	c.JSON(http.StatusOK, HistoryResponse{Items: items, Total: total})
}

func (s *Server) handleLatestScore(c *gin.Context) {
	latest, err := s.db.LatestScore(c.Request.Context(), currentUser(c))
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, LatestScoreResponse{ScoreOutOf10: latest})
}

func (s *Server) handleSaveHistory(c *gin.Context) {
	var req SaveHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	idea := strings.TrimSpace(req.Idea)
	if idea == "" {
		s.renderError(c, http.StatusBadRequest, scoring.ErrMissingIdea)
		return
	}
	result, err := scoring.Normalize(req.Result)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	result.IterationDelta = storedDelta(req.Result)

	row := &store.IdeaScore{
		UserID:       currentUser(c),
		Idea:         idea,
		ScoreOutOf10: result.ScoreOutOf10,
		Verdict:      result.Verdict,
		CreatedAt:    time.Now().UTC(),
	}
	if err := row.SetResult(result); err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	if err := s.db.InsertScore(c.Request.Context(), row); err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	item := HistoryItemFromModel(*row)
	s.historyNotifier.Publish(row.UserID, HistoryEvent{Type: historyEventSaved, Item: &item})
	c.JSON(http.StatusCreated, item)
}

// storedDelta keeps a client-supplied iteration_delta only when it is a finite number.
func storedDelta(raw any) *int {
	fields, _ := raw.(map[string]any)
	n, ok := fields["iteration_delta"].(float64)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	delta := int(math.Round(n))
	return &delta
}

func (s *Server) handleDeleteHistory(c *gin.Context) {
	userID := currentUser(c)
	id := strings.TrimSpace(c.Param("id"))
	if err := s.db.DeleteScore(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.renderError(c, http.StatusNotFound, errors.New("score not found"))
		} else {
			s.renderError(c, http.StatusInternalServerError, err)
		}
		return
	}
	s.historyNotifier.Publish(userID, HistoryEvent{Type: historyEventDeleted, ID: id})
	c.JSON(http.StatusOK, gin.H{"deleted": 1})
}

func (s *Server) handleClearHistory(c *gin.Context) {
	userID := currentUser(c)
	deleted, err := s.db.ClearScores(c.Request.Context(), userID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	s.historyNotifier.Publish(userID, HistoryEvent{Type: historyEventCleared, Deleted: deleted})
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (s *Server) handleHistoryStream(c *gin.Context) {
	upgrader := websocket.Upgrader{
		HandshakeTimeout:  5 * time.Second,
		EnableCompression: true,
		CheckOrigin: func(r *http.Request) bool {
			if len(s.allowedOrigins) == 0 {
				return true
			}
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" {
				return true
			}
			for _, allowed := range s.allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("upgrade websocket")
		return
	}

	userID := currentUser(c)
	client := s.historyNotifier.Register(userID, conn)
	logrus.WithField("remote", conn.RemoteAddr().String()).Info("history websocket connected")
	defer s.historyNotifier.Unregister(userID, client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("remote", conn.RemoteAddr().String()).Info("history websocket closed")
			} else {
				logrus.WithError(err).Warn("history websocket unexpected close")
			}
			break
		}
	}
}

func (s *Server) handleProfile(c *gin.Context) {
	profile, err := s.db.EnsureProfile(c.Request.Context(), currentUser(c))
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, ProfileFromModel(*profile, time.Now()))
}
