package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AdamBeresnev/wc-bracket/internal/bracket"
	"github.com/AdamBeresnev/wc-bracket/internal/combination"
	"github.com/AdamBeresnev/wc-bracket/internal/httputil"
	"github.com/AdamBeresnev/wc-bracket/internal/knockout"
	"github.com/AdamBeresnev/wc-bracket/internal/metrics"
	"github.com/AdamBeresnev/wc-bracket/internal/middleware"
	"github.com/AdamBeresnev/wc-bracket/internal/ordering"
	"github.com/AdamBeresnev/wc-bracket/internal/service"
	"github.com/AdamBeresnev/wc-bracket/internal/session"
	"github.com/AdamBeresnev/wc-bracket/internal/store"
	"github.com/AdamBeresnev/wc-bracket/views"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/markbates/goth/gothic"
	"github.com/prometheus/client_golang/prometheus"
)

type application struct {
	db        *sqlx.DB
	sessions  *scs.SessionManager
	registry  bracket.Registry
	table     *combination.Table
	metrics   metrics.Metrics
	gatherer  prometheus.Gatherer
	providers []string
	logger    *slog.Logger
}

type championAnnouncer struct {
	logger *slog.Logger
}

func (a championAnnouncer) AnnounceChampion(team bracket.Team) {
	a.logger.Info("champion decided", "team", team.Name)
}

// bracketSession rebuilds the visitor's bracket from their scs session. A
// snapshot that cannot be decoded is discarded.
func (app *application) bracketSession(r *http.Request) *session.Session {
	s := session.New(app.registry, app.table, session.Options{
		Logger:    app.logger,
		Metrics:   app.metrics,
		Announcer: championAnnouncer{logger: app.logger},
	})
	report, err := session.Load(r.Context(), store.NewSessionKV(app.sessions), s)
	if err != nil {
		app.logger.Warn("discarding unreadable bracket session", "error", err)
		s.Reset()
		return s
	}
	if len(report.RejectedGroups) > 0 || report.DroppedPicks > 0 {
		app.logger.Warn("bracket session partly restored", "rejectedGroups", report.RejectedGroups, "droppedPicks", report.DroppedPicks)
	}
	return s
}

func (app *application) saveSession(w http.ResponseWriter, r *http.Request, s *session.Session) bool {
	if err := session.Save(r.Context(), store.NewSessionKV(app.sessions), s); err != nil {
		httputil.InternalServerError(w, "Failed to save bracket session", err)
		return false
	}
	return true
}

func redirectToGroups(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/api/groups", http.StatusSeeOther)
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func (app *application) knockoutData(s *session.Session) (views.KnockoutData, error) {
	stages, err := s.Stages()
	if err != nil {
		return views.KnockoutData{}, err
	}
	var champion *bracket.Team
	if team, ok := s.Champion(); ok {
		champion = &team
	}
	return views.PrepareKnockoutData(stages, champion), nil
}

func newRouter(app *application) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(app.sessions.LoadAndSave)
	r.Use(middleware.LoadAuthenticatedUser(app.sessions, store.NewUserStore(app.db)))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		views.Render(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.NewMetricsHandler(app.gatherer))

	r.Route("/api", func(r chi.Router) {
		r.Get("/groups", func(w http.ResponseWriter, r *http.Request) {
			views.Render(w, http.StatusOK, views.PrepareGroupData(app.bracketSession(r)))
		})

		r.Post("/groups/{letter}/move", func(w http.ResponseWriter, r *http.Request) {
			letter := chi.URLParam(r, "letter")
			if len(letter) != 1 || !bracket.IsGroupLetter(letter[0]) {
				httputil.NotFound(w, "Group not found", nil)
				return
			}
			var body struct {
				ActiveID string   `json:"activeId"`
				OverID   string   `json:"overId"`
				Order    []string `json:"order"`
			}
			if err := decodeJSON(r, &body); err != nil {
				httputil.BadRequest(w, "Invalid JSON body", err)
				return
			}

			s := app.bracketSession(r)
			groupName := bracket.GroupName(letter[0])
			var err error
			if body.Order != nil {
				err = s.SetGroupOrder(groupName, body.Order)
			} else {
				_, err = s.MoveTeam(groupName, body.ActiveID, body.OverID)
			}
			if err != nil {
				if errors.Is(err, ordering.ErrUnknownGroup) {
					httputil.NotFound(w, "Group not found", err)
					return
				}
				httputil.BadRequest(w, err.Error(), err)
				return
			}
			if !app.saveSession(w, r, s) {
				return
			}
			views.Render(w, http.StatusOK, views.PrepareGroupData(s))
		})

		r.Get("/third-place", func(w http.ResponseWriter, r *http.Request) {
			views.Render(w, http.StatusOK, views.PrepareThirdPlaceData(app.bracketSession(r)))
		})

		r.Post("/third-place/move", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				ActiveGroup string `json:"activeGroup"`
				OverGroup   string `json:"overGroup"`
			}
			if err := decodeJSON(r, &body); err != nil {
				httputil.BadRequest(w, "Invalid JSON body", err)
				return
			}
			s := app.bracketSession(r)
			if _, err := s.MoveThirdPlace(body.ActiveGroup, body.OverGroup); err != nil {
				httputil.BadRequest(w, err.Error(), err)
				return
			}
			if !app.saveSession(w, r, s) {
				return
			}
			views.Render(w, http.StatusOK, views.PrepareThirdPlaceData(s))
		})

		r.Post("/third-place/confirm", func(w http.ResponseWriter, r *http.Request) {
			s := app.bracketSession(r)
			if err := s.ConfirmThirdPlaces(); err != nil {
				redirectToGroups(w, r)
				return
			}
			if !app.saveSession(w, r, s) {
				return
			}
			views.Render(w, http.StatusOK, views.PrepareThirdPlaceData(s))
		})

		r.Get("/round-of-32", func(w http.ResponseWriter, r *http.Request) {
			s := app.bracketSession(r)
			matchups, err := s.RoundOf32()
			if errors.Is(err, session.ErrIncomplete) {
				redirectToGroups(w, r)
				return
			}
			if err != nil {
				httputil.InternalServerError(w, "Failed to build round of 32", err)
				return
			}
			// a rebuild may have dropped stale picks
			if !app.saveSession(w, r, s) {
				return
			}
			views.Render(w, http.StatusOK, matchups)
		})

		r.Get("/knockout", func(w http.ResponseWriter, r *http.Request) {
			s := app.bracketSession(r)
			data, err := app.knockoutData(s)
			if errors.Is(err, session.ErrIncomplete) {
				redirectToGroups(w, r)
				return
			}
			if err != nil {
				httputil.InternalServerError(w, "Failed to build knockout stage", err)
				return
			}
			if !app.saveSession(w, r, s) {
				return
			}
			views.Render(w, http.StatusOK, data)
		})

		r.Post("/knockout/{stage}/{match}", func(w http.ResponseWriter, r *http.Request) {
			stage, err := knockout.ParseStage(chi.URLParam(r, "stage"))
			if err != nil {
				httputil.BadRequest(w, "Unknown stage", err)
				return
			}
			idx, err := strconv.Atoi(chi.URLParam(r, "match"))
			if err != nil {
				httputil.BadRequest(w, "Invalid match index", err)
				return
			}
			var body struct {
				Side string `json:"side"`
			}
			if err := decodeJSON(r, &body); err != nil {
				httputil.BadRequest(w, "Invalid JSON body", err)
				return
			}
			side, err := knockout.ParseSide(body.Side)
			if err != nil {
				httputil.BadRequest(w, err.Error(), err)
				return
			}

			s := app.bracketSession(r)
			events, err := s.Pick(stage, idx, side)
			if err != nil {
				switch {
				case errors.Is(err, session.ErrIncomplete):
					redirectToGroups(w, r)
				case errors.Is(err, knockout.ErrMatchNotReady):
					httputil.Conflict(w, err.Error(), err)
				case errors.Is(err, knockout.ErrMatchOutOfRange), errors.Is(err, knockout.ErrUnknownStage), errors.Is(err, knockout.ErrInvalidSide):
					httputil.BadRequest(w, err.Error(), err)
				default:
					httputil.InternalServerError(w, "Failed to record pick", err)
				}
				return
			}
			if !app.saveSession(w, r, s) {
				return
			}
			data, err := app.knockoutData(s)
			if err != nil {
				httputil.InternalServerError(w, "Failed to build knockout stage", err)
				return
			}
			views.Render(w, http.StatusOK, struct {
				Events   []knockout.Event   `json:"events"`
				Knockout views.KnockoutData `json:"knockout"`
			}{events, data})
		})

		r.Post("/reset", func(w http.ResponseWriter, r *http.Request) {
			s := app.bracketSession(r)
			s.Reset()
			if !app.saveSession(w, r, s) {
				return
			}
			views.Render(w, http.StatusOK, views.PrepareGroupData(s))
		})

		r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
			user := views.GetUser(r.Context())
			if user == nil {
				views.Render(w, http.StatusOK, map[string]any{"user": nil})
				return
			}
			views.Render(w, http.StatusOK, map[string]any{"user": user, "guest": user.IsGuest()})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/brackets", func(w http.ResponseWriter, r *http.Request) {
				bracketService := service.NewSavedBracketService(store.NewBracketStore(app.db))
				brackets, err := bracketService.List(r.Context())
				if err != nil {
					httputil.InternalServerError(w, "Failed to list brackets", err)
					return
				}
				if brackets == nil {
					brackets = []bracket.SavedBracket{}
				}
				views.Render(w, http.StatusOK, brackets)
			})

			r.Post("/brackets", func(w http.ResponseWriter, r *http.Request) {
				var body struct {
					Name string `json:"name"`
				}
				if err := decodeJSON(r, &body); err != nil {
					httputil.BadRequest(w, "Invalid JSON body", err)
					return
				}
				s := app.bracketSession(r)
				blob, err := session.EncodeSnapshot(s.Snapshot())
				if err != nil {
					httputil.InternalServerError(w, "Failed to encode bracket", err)
					return
				}

				bracketService := service.NewSavedBracketService(store.NewBracketStore(app.db))
				saved, err := bracketService.Save(r.Context(), body.Name, blob, championOf(s))
				if err != nil {
					if errors.Is(err, service.ErrInvalidBracketName) {
						httputil.BadRequest(w, err.Error(), err)
						return
					}
					httputil.InternalServerError(w, "Failed to save bracket", err)
					return
				}
				views.Render(w, http.StatusCreated, saved)
			})

			r.Get("/brackets/{id}", func(w http.ResponseWriter, r *http.Request) {
				bracketService := service.NewSavedBracketService(store.NewBracketStore(app.db))
				saved, err := bracketService.Get(r.Context(), chi.URLParam(r, "id"))
				if err != nil {
					if errors.Is(err, service.ErrBracketNotFound) {
						httputil.NotFound(w, "Bracket not found", err)
						return
					}
					httputil.InternalServerError(w, "Failed to get bracket", err)
					return
				}
				snap, err := session.DecodeSnapshot(saved.Snapshot)
				if err != nil {
					httputil.InternalServerError(w, "Failed to decode bracket", err)
					return
				}
				views.Render(w, http.StatusOK, struct {
					*bracket.SavedBracket
					Snapshot session.Snapshot `json:"snapshot"`
				}{saved, snap})
			})

			r.Put("/brackets/{id}", func(w http.ResponseWriter, r *http.Request) {
				s := app.bracketSession(r)
				blob, err := session.EncodeSnapshot(s.Snapshot())
				if err != nil {
					httputil.InternalServerError(w, "Failed to encode bracket", err)
					return
				}
				bracketService := service.NewSavedBracketService(store.NewBracketStore(app.db))
				if err := bracketService.Update(r.Context(), chi.URLParam(r, "id"), blob, championOf(s)); err != nil {
					if errors.Is(err, service.ErrBracketNotFound) {
						httputil.NotFound(w, "Bracket not found", err)
						return
					}
					httputil.InternalServerError(w, "Failed to update bracket", err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})

			r.Delete("/brackets/{id}", func(w http.ResponseWriter, r *http.Request) {
				bracketService := service.NewSavedBracketService(store.NewBracketStore(app.db))
				if err := bracketService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
					if errors.Is(err, service.ErrBracketNotFound) {
						httputil.NotFound(w, "Bracket not found", err)
						return
					}
					httputil.InternalServerError(w, "Failed to delete bracket", err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})

			r.Post("/brackets/{id}/load", func(w http.ResponseWriter, r *http.Request) {
				bracketService := service.NewSavedBracketService(store.NewBracketStore(app.db))
				saved, err := bracketService.Get(r.Context(), chi.URLParam(r, "id"))
				if err != nil {
					if errors.Is(err, service.ErrBracketNotFound) {
						httputil.NotFound(w, "Bracket not found", err)
						return
					}
					httputil.InternalServerError(w, "Failed to get bracket", err)
					return
				}
				snap, err := session.DecodeSnapshot(saved.Snapshot)
				if err != nil {
					httputil.InternalServerError(w, "Failed to decode bracket", err)
					return
				}

				s := app.bracketSession(r)
				report := s.Restore(snap)
				if !app.saveSession(w, r, s) {
					return
				}
				views.Render(w, http.StatusOK, struct {
					Groups views.GroupStageData  `json:"groups"`
					Report session.RestoreReport `json:"report"`
				}{views.PrepareGroupData(s), report})
			})
		})
	})

	r.Get("/login", func(w http.ResponseWriter, r *http.Request) {
		views.Render(w, http.StatusOK, map[string]any{"providers": app.providers, "guest": true})
	})

	r.Get("/auth/{provider}", func(w http.ResponseWriter, r *http.Request) {
		r = gothic.GetContextWithProvider(r, chi.URLParam(r, "provider"))
		gothic.BeginAuthHandler(w, r)
	})

	r.Get("/auth/{provider}/callback", func(w http.ResponseWriter, r *http.Request) {
		r = gothic.GetContextWithProvider(r, chi.URLParam(r, "provider"))

		gothUser, err := gothic.CompleteUserAuth(w, r)
		if err != nil {
			httputil.BadRequest(w, "Authentication failure", err)
			return
		}

		userService := service.NewUserService(store.NewUserStore(app.db))
		user, err := userService.FindOrCreateUserByProvider(r.Context(), gothUser)
		if err != nil {
			httputil.InternalServerError(w, "Failed to find or create user", err)
			return
		}

		app.sessions.Put(r.Context(), middleware.SessionUserIDKey, user.ID.String())
		http.Redirect(w, r, "/api/groups", http.StatusFound)
	})

	r.Post("/auth/guest", func(w http.ResponseWriter, r *http.Request) {
		userService := service.NewUserService(store.NewUserStore(app.db))

		user, err := userService.EnsureGuestUser(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to login as guest", err)
			return
		}

		app.sessions.Put(r.Context(), middleware.SessionUserIDKey, user.ID.String())
		http.Redirect(w, r, "/api/groups", http.StatusFound)
	})

	r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
		if err := app.sessions.Destroy(r.Context()); err != nil {
			httputil.InternalServerError(w, "Failed to log out", err)
			return
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	})

	return r
}

func championOf(s *session.Session) *bracket.Team {
	if team, ok := s.Champion(); ok {
		return &team
	}
	return nil
}
