package service

import "errors"

var (
	ErrUserNotFound     = errors.New("usuario nao encontrado")
	ErrRecordNotFound   = errors.New("registro nao encontrado")
	ErrWrongPassword    = errors.New("senha incorreta")
	ErrAlreadyExists    = errors.New("usuario ja cadastrado")
	ErrNoActiveFlow     = errors.New("nenhuma conversa ativa")
	ErrFlowExpired      = errors.New("conversa expirada")
	ErrInvalidSelection = errors.New("selecao invalida")
)
