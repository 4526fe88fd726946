// Package server hosts the vault HTTP API.
package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/vault-in-go/pkg/attachment"
	"github.com/doodlesbykumbi/vault-in-go/pkg/config"
	"github.com/doodlesbykumbi/vault-in-go/pkg/crypto/keyprovider"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/entity"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/store"
	"github.com/doodlesbykumbi/vault-in-go/pkg/vault/trash"
)

type Server struct {
	Store       store.Store
	Entities    *entity.Service
	Trash       *trash.Manager
	Attachments *attachment.Service
	Router      *mux.Router
	Config      *config.VaultConfig
	SigningKey  []byte
	DB          *gorm.DB

	srv *http.Server
}

func NewServer(
	st store.Store,
	keys keyprovider.Provider,
	resolver attachment.Resolver,
	conf *config.VaultConfig,
	signingKey []byte,
	db *gorm.DB,
) *Server {
	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler:      handlers.LoggingHandler(os.Stdout, router),
		Addr:         conf.ListenAddr(),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	trashMgr := trash.NewManager(st)

	return &Server{
		Store:       st,
		Entities:    entity.NewService(st, keys, trashMgr, conf.ListLimitMax),
		Trash:       trashMgr,
		Attachments: attachment.NewService(st, resolver, conf.AttachmentURLLifetime()),
		Router:      router,
		Config:      conf,
		SigningKey:  signingKey,
		DB:          db,
		srv:         srv,
	}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
