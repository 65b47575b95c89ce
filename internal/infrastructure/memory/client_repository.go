package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Cobranza-api/internal/domain"
	"github.com/jhoicas/Cobranza-api/internal/domain/entity"
	"github.com/jhoicas/Cobranza-api/internal/domain/repository"
)

var (
	_ repository.ClientRepository   = (*ClientRepo)(nil)
	_ repository.SequenceRepository = (*SequenceRepo)(nil)
)

// ClientRepo clientes en memoria.
type ClientRepo struct {
	v *view
}

func (r *ClientRepo) Create(_ context.Context, c *entity.Client) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.clients[c.ID]; ok {
			return domain.ErrDuplicate
		}
		cp := *c
		st.clients[c.ID] = &cp
		return nil
	})
}

func (r *ClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	var out *entity.Client
	err := r.v.do(func(st *state) error {
		if c, ok := st.clients[id]; ok {
			cp := *c
			out = &cp
		}
		return nil
	})
	return out, err
}

// List ordena por fecha de alta y luego por ID.
func (r *ClientRepo) List(_ context.Context, limit, offset int) ([]*entity.Client, error) {
	var all []*entity.Client
	err := r.v.do(func(st *state) error {
		for _, c := range st.clients {
			cp := *c
			all = append(all, &cp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	if offset >= len(all) {
		return []*entity.Client{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

// SequenceRepo contadores por prefijo y año.
type SequenceRepo struct {
	v *view
}

func (r *SequenceRepo) Next(_ context.Context, prefix string, year int) (int64, error) {
	var n int64
	err := r.v.do(func(st *state) error {
		key := fmt.Sprintf("%s-%d", prefix, year)
		st.sequences[key]++
		n = st.sequences[key]
		return nil
	})
	return n, err
}
