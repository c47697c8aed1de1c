package core

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrStationNotFound   = errors.New("station not found")
	ErrShiftTypeNotFound = errors.New("shift type not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already exists")
	ErrInvalidStations   = errors.New("one or more stations are invalid or inactive")
)
