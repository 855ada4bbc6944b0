package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gamenet/backend/internal/network"
	apperrors "gamenet/backend/pkg/errors"
)

// maxNetworkSize caps PUT /api/network bodies
const maxNetworkSize = 1 << 20

type addUserRequest struct {
	Name  string   `json:"name" binding:"required"`
	Games []string `json:"games"`
}

type addConnectionRequest struct {
	Connection string `json:"connection" binding:"required"`
}

func (h *Handler) listUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"users": h.store.Names()})
}

func (h *Handler) getUser(c *gin.Context) {
	name := c.Param("name")
	person, ok := h.store.Person(name)
	if !ok {
		userNotFound(c, name)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":        name,
		"connections": person.Connections,
		"games":       person.Games,
	})
}

func (h *Handler) getConnections(c *gin.Context) {
	name := c.Param("name")
	connections, ok := h.store.GetConnections(name)
	if !ok {
		userNotFound(c, name)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": name, "connections": connections})
}

func (h *Handler) getGames(c *gin.Context) {
	name := c.Param("name")
	games, ok := h.store.GetGamesLiked(name)
	if !ok {
		userNotFound(c, name)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": name, "games": games})
}

func (h *Handler) getSecondaryConnections(c *gin.Context) {
	name := c.Param("name")
	secondary, ok := h.store.GetSecondaryConnections(name)
	if !ok {
		userNotFound(c, name)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": name, "connections": secondary})
}

func (h *Handler) addUser(c *gin.Context) {
	var req addUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validName(req.Name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name must be a single word without punctuation"})
		return
	}
	for _, game := range req.Games {
		if !validTitle(game) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game title", "game": game})
			return
		}
	}

	if !h.store.AddNewUser(req.Name, req.Games) {
		c.JSON(http.StatusOK, gin.H{"user": req.Name, "created": false})
		return
	}

	h.logger.Info("User added", zap.String("user", req.Name), zap.Int("games", len(req.Games)))
	h.syncMirror(c)
	c.JSON(http.StatusCreated, gin.H{"user": req.Name, "created": true})
}

func (h *Handler) addConnection(c *gin.Context) {
	name := c.Param("name")

	var req addConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.store.AddConnection(name, req.Connection) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "both users must exist",
			"user":       name,
			"connection": req.Connection,
		})
		return
	}

	h.logger.Info("Connection added", zap.String("user", name), zap.String("connection", req.Connection))
	h.syncMirror(c)

	connections, _ := h.store.GetConnections(name)
	c.JSON(http.StatusOK, gin.H{"user": name, "connections": connections})
}

func (h *Handler) getNetwork(c *gin.Context) {
	c.String(http.StatusOK, h.store.String())
}

func (h *Handler) replaceNetwork(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxNetworkSize))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	}

	n, err := network.Parse(string(body))
	if err != nil {
		var malformed *apperrors.ErrMalformedInput
		if errors.As(err, &malformed) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":    "malformed network text",
				"reason":   malformed.Reason,
				"sentence": malformed.Sentence,
				"offset":   malformed.Offset,
			})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse network"})
		return
	}

	h.store.Replace(n)
	dangling := n.DanglingReferences()
	h.logger.Info("Network replaced", zap.Int("people", n.Len()), zap.Int("dangling", len(dangling)))
	h.syncMirror(c)

	c.JSON(http.StatusOK, gin.H{"people": n.Len(), "dangling": len(dangling)})
}

func (h *Handler) getDangling(c *gin.Context) {
	refs := h.store.DanglingReferences()
	if refs == nil {
		refs = []network.Reference{}
	}
	c.JSON(http.StatusOK, gin.H{"dangling": refs})
}

// syncMirror pushes the current network to the mirror. Failures are logged
// and never fail the request: the in-memory network stays authoritative.
//
// The snapshot is taken under syncMu, so the last sync to run always carries
// every change made before it started.
func (h *Handler) syncMirror(c *gin.Context) {
	if h.mirror == nil {
		return
	}
	h.syncMu.Lock()
	defer h.syncMu.Unlock()

	if _, err := h.mirror.SyncNetwork(c.Request.Context(), h.store.Snapshot()); err != nil {
		h.logger.Warn("Failed to sync network to graph",
			zap.Error(err),
			zap.Bool("retryable", apperrors.IsRetryable(err)),
		)
	}
}

func userNotFound(c *gin.Context, name string) {
	c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "user": name})
}

// validName accepts names the sentence grammar can carry: one word, no
// separators or periods.
func validName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || r == '.' || r == ','
	})
}

// validTitle accepts titles that survive a format/parse round trip
func validTitle(title string) bool {
	return title != "" &&
		strings.TrimSpace(title) == title &&
		!strings.ContainsRune(title, '.') &&
		!strings.Contains(title, ", ") &&
		!strings.HasSuffix(title, ",")
}
