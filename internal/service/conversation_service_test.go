package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Steffany-Martins/botCheckin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchUserFlow(t *testing.T) {
	f := newFixture(t.TempDir())
	f.seedManager(managerPhone, "Maria Santos", "senha-gerente")
	f.seedStaff(staffPhone, "Joao Silva")

	reply := f.send(managerPhone, "7")
	assert.Contains(t, reply, "Buscar Usuário")
	assert.True(t, f.conversation.Active(managerPhone))

	reply = f.send(managerPhone, "Joao")
	assert.Contains(t, reply, "Resultados para \"Joao\"")
	assert.Contains(t, reply, "Joao Silva")

	reply = f.send(managerPhone, "1")
	assert.Contains(t, reply, "Funcionário")
	assert.Contains(t, reply, staffPhone)
	// Selection is terminal; the menu comes back.
	assert.Contains(t, reply, "Painel de Gestão")
	assert.False(t, f.conversation.Active(managerPhone))
}

func TestSearchNoResultsKeepsFlowOpen(t *testing.T) {
	f := newFixture(t.TempDir())
	f.seedManager(managerPhone, "Maria Santos", "senha-gerente")

	f.send(managerPhone, "7")
	reply := f.send(managerPhone, "Fulano")
	assert.Contains(t, reply, "Nenhum resultado")
	assert.True(t, f.conversation.Active(managerPhone))
}

func TestSetHoursFlow(t *testing.T) {
	f := newFixture(t.TempDir())
	f.seedManager(managerPhone, "Maria Santos", "senha-gerente")
	staff := f.seedStaff(staffPhone, "Joao Silva")

	f.send(managerPhone, "8")
	f.send(managerPhone, "Joao")
	reply := f.send(managerPhone, "1")
	assert.Contains(t, reply, "Definir Horas para Joao Silva")

	// Invalid value re-prompts without closing the flow.
	reply = f.send(managerPhone, "999")
	assert.Contains(t, reply, "Valor inválido")
	assert.True(t, f.conversation.Active(managerPhone))

	reply = f.send(managerPhone, "38,5")
	assert.Contains(t, reply, "Horas definidas")
	assert.Contains(t, reply, "38,5 horas/semana")

	updated, _ := f.users.FindByID(context.Background(), staff.ID)
	assert.InDelta(t, 38.5, updated.ExpectedWeeklyHours, 0.001)
	assert.False(t, f.conversation.Active(managerPhone))
}

func TestEditCategoryFlow(t *testing.T) {
	f := newFixture(t.TempDir())
	f.seedManager(managerPhone, "Maria Santos", "senha-gerente")
	staff := f.seedStaff(staffPhone, "Joao Silva")

	f.send(managerPhone, "10")
	f.send(managerPhone, "Joao")
	reply := f.send(managerPhone, "1")
	assert.Contains(t, reply, "Editar Categorias de Joao Silva")

	reply = f.send(managerPhone, "1 3 5")
	assert.Contains(t, reply, "Categorias atualizadas")

	updated, _ := f.users.FindByID(context.Background(), staff.ID)
	assert.Equal(t, "bar,padaria,lanchonete", updated.Categories)
}

func TestEditHoursFlowAuditTrail(t *testing.T) {
	f := newFixture(t.TempDir())
	manager := f.seedManager(managerPhone, "Maria Santos", "senha-gerente")
	f.seedStaff(staffPhone, "Joao Silva")

	// Punch first, then edit it twice through the flow.
	f.send(staffPhone, "1")
	recs, _ := f.checkins.RecentByUser(context.Background(), mustUser(t, f, staffPhone).ID, 1)
	require.Len(t, recs, 1)
	firstTS := recs[0].Timestamp

	f.send(managerPhone, "11")
	f.send(managerPhone, "Joao")
	reply := f.send(managerPhone, "1")
	assert.Contains(t, reply, "Horários de Joao Silva")

	reply = f.send(managerPhone, "1")
	assert.Contains(t, reply, "Envie o novo horário")

	reply = f.send(managerPhone, "08:30")
	assert.Contains(t, reply, "Horário atualizado")
	assert.Contains(t, reply, "Alterado por: Maria Santos")

	edited, _ := f.checkins.FindByID(context.Background(), recs[0].ID)
	require.NotNil(t, edited.OriginalTimestamp)
	assert.True(t, edited.OriginalTimestamp.Equal(firstTS))
	require.NotNil(t, edited.EditedBy)
	assert.Equal(t, manager.ID, *edited.EditedBy)

	// A second edit must not overwrite the original timestamp.
	f.send(managerPhone, "11")
	f.send(managerPhone, "Joao")
	f.send(managerPhone, "1")
	f.send(managerPhone, "1")
	f.send(managerPhone, "09:15")

	edited, _ = f.checkins.FindByID(context.Background(), recs[0].ID)
	require.NotNil(t, edited.OriginalTimestamp)
	assert.True(t, edited.OriginalTimestamp.Equal(firstTS))
}

func TestEditHoursNoRecordsEndsFlow(t *testing.T) {
	f := newFixture(t.TempDir())
	f.seedManager(managerPhone, "Maria Santos", "senha-gerente")
	f.seedStaff(staffPhone, "Joao Silva")

	f.send(managerPhone, "11")
	f.send(managerPhone, "Joao")
	reply := f.send(managerPhone, "1")
	assert.Contains(t, reply, "Nenhum registro encontrado para editar")
	assert.False(t, f.conversation.Active(managerPhone))
}

func TestInvalidSelectionDoesNotAdvance(t *testing.T) {
	f := newFixture(t.TempDir())
	f.seedManager(managerPhone, "Maria Santos", "senha-gerente")
	f.seedStaff(staffPhone, "Joao Silva")

	f.send(managerPhone, "7")
	f.send(managerPhone, "Joao")
	reply := f.send(managerPhone, "5")
	assert.Contains(t, reply, "Opção inválida")
	assert.True(t, f.conversation.Active(managerPhone))

	reply = f.send(managerPhone, "abc")
	assert.Contains(t, reply, "Opção inválida")
	assert.True(t, f.conversation.Active(managerPhone))
}

func TestConversationZeroCancels(t *testing.T) {
	f := newFixture(t.TempDir())
	f.seedManager(managerPhone, "Maria Santos", "senha-gerente")

	f.send(managerPhone, "7")
	reply := f.send(managerPhone, "0")
	assert.Contains(t, reply, "Operação cancelada")
	assert.Contains(t, reply, "Painel de Gestão")
	assert.False(t, f.conversation.Active(managerPhone))
}

func TestConversationCancelWord(t *testing.T) {
	f := newFixture(t.TempDir())
	f.seedManager(managerPhone, "Maria Santos", "senha-gerente")

	f.send(managerPhone, "7")
	require.True(t, f.conversation.Active(managerPhone))

	// CANCELAR works mid-flow exactly like "0".
	reply := f.send(managerPhone, "CANCELAR")
	assert.Contains(t, reply, "Operação cancelada")
	assert.Contains(t, reply, "Painel de Gestão")
	assert.False(t, f.conversation.Active(managerPhone))
}

func TestSetHoursFractional(t *testing.T) {
	f := newFixture(t.TempDir())
	f.seedManager(managerPhone, "Maria Santos", "senha-gerente")
	staff := f.seedStaff(staffPhone, "Joao Silva")

	f.send(managerPhone, "8")
	f.send(managerPhone, "Joao")
	f.send(managerPhone, "1")

	reply := f.send(managerPhone, "0,5")
	assert.Contains(t, reply, "Horas definidas")

	updated, _ := f.users.FindByID(context.Background(), staff.ID)
	assert.InDelta(t, 0.5, updated.ExpectedWeeklyHours, 0.001)
}

func TestSearchResultsCapped(t *testing.T) {
	f := newFixture(t.TempDir())
	f.seedManager(managerPhone, "Maria Santos", "senha-gerente")
	for i := 0; i < 12; i++ {
		u := &model.User{
			Phone:  fmt.Sprintf("+55219%07d", i),
			Name:   fmt.Sprintf("Joao %02d", i),
			Role:   model.RoleStaff,
			Active: true,
		}
		require.NoError(t, f.users.Create(context.Background(), u))
	}

	f.send(managerPhone, "7")
	reply := f.send(managerPhone, "Joao")
	assert.Contains(t, reply, "Joao 00")
	assert.Contains(t, reply, "Joao 09")
	assert.NotContains(t, reply, "Joao 10")
	assert.NotContains(t, reply, "Joao 11")
}

func TestEditHoursListCapped(t *testing.T) {
	f := newFixture(t.TempDir())
	f.seedManager(managerPhone, "Maria Santos", "senha-gerente")
	staff := f.seedStaff(staffPhone, "Joao Silva")

	now := time.Now()
	for i := 0; i < 11; i++ {
		rec := &model.CheckinRecord{
			UserID:    staff.ID,
			Type:      model.CheckinIn,
			Timestamp: now.Add(-time.Duration(i) * 24 * time.Hour),
		}
		require.NoError(t, f.checkins.Create(context.Background(), rec))
	}

	f.send(managerPhone, "11")
	f.send(managerPhone, "Joao")
	reply := f.send(managerPhone, "1")
	assert.Contains(t, reply, "Horários de Joao Silva")
	// Only the ten most recent punches are offered.
	assert.Contains(t, reply, "(1-10)")
	assert.NotContains(t, reply, "11️⃣")
}

func TestGlobalMenuDestroysConversation(t *testing.T) {
	f := newFixture(t.TempDir())
	f.seedManager(managerPhone, "Maria Santos", "senha-gerente")

	f.send(managerPhone, "7")
	require.True(t, f.conversation.Active(managerPhone))

	reply := f.send(managerPhone, "9")
	assert.Contains(t, reply, "Painel de Gestão")
	assert.False(t, f.conversation.Active(managerPhone))
}

func TestConversationLazyExpiry(t *testing.T) {
	f := newFixture(t.TempDir())
	f.seedManager(managerPhone, "Maria Santos", "senha-gerente")

	f.send(managerPhone, "7")

	// Age the flow past the 5 minute timeout.
	f.conversation.mu.Lock()
	f.conversation.states[managerPhone].UpdatedAt = time.Now().Add(-6 * time.Minute)
	f.conversation.mu.Unlock()

	reply := f.send(managerPhone, "Joao")
	assert.Contains(t, reply, "Conversa expirada")
	assert.False(t, f.conversation.Active(managerPhone))
}

func TestSupervisorTeamCommands(t *testing.T) {
	f := newFixture(t.TempDir())
	supPhone := "+5521966665555"
	hash, _ := f.auth.HashPassword("senha-super")
	sup := &model.User{Phone: supPhone, Name: "Carlos Lima", Role: model.RoleSupervisor, PasswordHash: &hash}
	require.NoError(t, f.users.Create(context.Background(), sup))
	require.NoError(t, f.auth.Login(context.Background(), sup, "senha-super"))
	f.seedStaff(staffPhone, "Joao Silva")

	// Nobody punched in yet.
	reply := f.send(supPhone, "5")
	assert.Contains(t, reply, "Ninguém trabalhando no momento")

	f.send(staffPhone, "1")
	reply = f.send(supPhone, "5")
	assert.Contains(t, reply, "Equipe Ativa (1)")
	assert.Contains(t, reply, "Joao Silva")

	// After checkout the employee leaves the active list.
	f.send(staffPhone, "4")
	reply = f.send(supPhone, "5")
	assert.Contains(t, reply, "Ninguém trabalhando no momento")
}
