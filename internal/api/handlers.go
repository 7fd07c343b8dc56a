package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mcanfield/huddle/internal/server"
	"github.com/mcanfield/huddle/internal/types"
)

type CreateRoomRequest struct {
	Capacity int `json:"capacity"`
}

type CreateRoomResponse struct {
	RoomId  string `json:"room_id"`
	JoinURL string `json:"join_url"`
}

type RoomInfoResponse struct {
	Exists   bool               `json:"exists"`
	Capacity types.CapacityInfo `json:"capacity"`
}

func (s *HuddleApp) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("json encode: %v", err)
	}
}

func (s *HuddleApp) createRoom(w http.ResponseWriter, r *http.Request) {
	// an empty body requests the default capacity
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	capacity := req.Capacity
	if capacity == 0 {
		capacity = s.defaultRoomCapacity
	}
	if capacity < 2 || capacity > s.maxRoomCapacity {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	roomId := s.registry.CreateRoom(capacity)

	s.writeJson(w, http.StatusCreated, CreateRoomResponse{
		RoomId:  roomId,
		JoinURL: fmt.Sprintf("%s/join/%s", s.baseURL, roomId),
	})
}

func (s *HuddleApp) getRoom(w http.ResponseWriter, r *http.Request) {
	roomId := r.URL.Query().Get("id")
	if roomId == "" {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	capacity, ok := s.registry.GetRoomCapacityInfo(roomId)
	if !ok {
		errResp := NewNotFoundError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, RoomInfoResponse{
		Exists:   true,
		Capacity: capacity,
	})
}

func (s *HuddleApp) getStats(w http.ResponseWriter, _ *http.Request) {
	s.writeJson(w, http.StatusOK, s.registry.Stats())
}

func (s *HuddleApp) serveWs(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}

			return slices.Contains(s.allowedOrigins, origin)
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Println("error upgrading connection:", err)
		return
	}

	client := server.NewClient(uuid.NewString(), conn, s.cs, s.log)

	s.cs.RegisterClient(client)
	go client.Write()
	go client.Read()
}
