package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Lastname string `json:"lastname,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role,omitempty"`
}

type Room struct {
	ID          string   `json:"id"`
	Num         int      `json:"num,omitempty"`
	Name        string   `json:"name,omitempty"`
	Floor       int      `json:"floor,omitempty"`
	MaxCapacity int      `json:"maxCapacity,omitempty"`
	Description string   `json:"description,omitempty"`
	OwnerID     string   `json:"ownerId"`
	Images      []string `json:"images,omitempty"`
	SimpleBeds  int      `json:"simpleBeds,omitempty"`
	MediumBeds  int      `json:"mediumBeds,omitempty"`
	DoubleBeds  int      `json:"doubleBeds,omitempty"`
	Owner       *User    `json:"owner,omitempty"`
}

type RoomClient struct {
	baseURL string
	http    *http.Client
	breaker *Breaker
}

func NewRoomClient(baseURL string, hc *http.Client, breaker *Breaker) *RoomClient {
	return &RoomClient{baseURL: strings.TrimRight(baseURL, "/"), http: hc, breaker: breaker}
}

func (c *RoomClient) FindByID(ctx context.Context, id string) (*Room, error) {
	return Call(ctx, c.breaker, func(ctx context.Context) (*Room, error) {
		var room Room
		if err := getJSON(ctx, c.http, c.baseURL+"/api/rooms/"+url.PathEscape(id), &room); err != nil {
			return nil, err
		}
		return &room, nil
	})
}

type UserClient struct {
	baseURL string
	http    *http.Client
	breaker *Breaker
}

func NewUserClient(baseURL string, hc *http.Client, breaker *Breaker) *UserClient {
	return &UserClient{baseURL: strings.TrimRight(baseURL, "/"), http: hc, breaker: breaker}
}

func (c *UserClient) FindByID(ctx context.Context, id string) (*User, error) {
	return Call(ctx, c.breaker, func(ctx context.Context) (*User, error) {
		var user User
		if err := getJSON(ctx, c.http, c.baseURL+"/api/users/"+url.PathEscape(id), &user); err != nil {
			return nil, err
		}
		return &user, nil
	})
}
