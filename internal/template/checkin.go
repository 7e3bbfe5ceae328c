package template

import (
	"fmt"
	"strings"
	"time"

	"github.com/Steffany-Martins/botCheckin/internal/model"
	"github.com/Steffany-Martins/botCheckin/internal/util"
)

func typeIcon(t model.CheckinType) string {
	switch t {
	case model.CheckinIn:
		return "🟢"
	case model.CheckinBreak:
		return "🟡"
	case model.CheckinReturn:
		return "🔵"
	case model.CheckinOut:
		return "🔴"
	}
	return "•"
}

// CheckinConfirmation acknowledges a recorded punch. Check-in and check-out
// greetings vary with the local hour, matching how the bot has always talked.
func CheckinConfirmation(typ model.CheckinType, userName string, at time.Time) string {
	timeStr := util.FormatTime(at, false)
	switch typ {
	case model.CheckinIn:
		return fmt.Sprintf("🟢 *Ótimo dia de trabalho, %s!*\n\n"+
			"Seu check-in foi registrado às %s\n\n"+
			"💪 Vamos com tudo hoje! Sucesso! ✨", userName, timeStr)
	case model.CheckinBreak:
		return fmt.Sprintf("🟡 *Pausa iniciada!*\n\n"+
			"⏰ %s\n\n"+
			"😌 Aproveite para descansar! Você merece! ☕", timeStr)
	case model.CheckinReturn:
		return fmt.Sprintf("🔵 *Bem-vindo(a) de volta!*\n\n"+
			"⏰ Retorno registrado às %s\n\n"+
			"💪 Renovado(a) e pronto(a) para continuar! Vamos lá!", timeStr)
	case model.CheckinOut:
		if at.In(util.SaoPaulo()).Hour() >= 18 {
			return fmt.Sprintf("🔴 *Ótimo trabalho hoje!*\n\n"+
				"⏰ Check-out registrado às %s\n\n"+
				"✨ Descanse bem! Você fez um excelente trabalho! 🎉\n"+
				"💝 Até amanhã!", timeStr)
		}
		return fmt.Sprintf("🔴 *Check-out registrado!*\n\n"+
			"⏰ %s\n\n"+
			"😊 Tenha um excelente resto de dia!\n"+
			"🌟 Obrigado pelo seu trabalho!", timeStr)
	}
	return fmt.Sprintf("✅ *Ação registrada!*\n\n⏰ %s", timeStr)
}

// CheckinDuplicate offers the replace-or-keep choice when a punch of the
// same type already exists in the period.
func CheckinDuplicate(typ model.CheckinType, existing time.Time) string {
	return fmt.Sprintf("⚠️ *%s já registrado hoje às %s*\n\n"+
		"Deseja substituir pelo horário atual?\n\n"+
		"1️⃣ Sim, substituir\n"+
		"2️⃣ Não, manter o registro\n\n"+
		"0️⃣ Cancelar", typ.Label(), util.FormatTime(existing, false))
}

// CheckinReplaced confirms the duplicate was overwritten.
func CheckinReplaced(typ model.CheckinType, at time.Time) string {
	return fmt.Sprintf("✅ *%s substituído!*\n\n"+
		"⏰ Novo horário: %s", typ.Label(), util.FormatTime(at, false))
}

// CheckinKept confirms the original record stayed.
func CheckinKept(typ model.CheckinType, at time.Time) string {
	return fmt.Sprintf("👍 *Registro mantido*\n\n"+
		"%s continua às %s.", typ.Label(), util.FormatTime(at, false))
}

// OutOfRange rejects a punch sent from outside the venue geofence.
func OutOfRange(distanceMeters, radiusMeters int) string {
	return fmt.Sprintf("📍 *Fora do local de trabalho*\n\n"+
		"Você está a %dm do estabelecimento (limite: %dm).\n\n"+
		"Aproxime-se do local e tente novamente.", distanceMeters, radiusMeters)
}

// UserHistory renders the caller's punch history, most recent highlighted.
func UserHistory(records []model.CheckinRecord, hasMore bool) string {
	if len(records) == 0 {
		return "📊 *Seu Histórico*\n\n_Nenhum registro encontrado._"
	}
	var b strings.Builder
	recent := records[0]
	b.WriteString("📍 *MAIS RECENTE:*\n")
	fmt.Fprintf(&b, "%s %s - %s\n\n", typeIcon(recent.Type), recent.Type, util.FormatTime(recent.Timestamp, true))
	fmt.Fprintf(&b, "📊 *HISTÓRICO (%d registros):*\n\n", len(records))
	for _, r := range records {
		fmt.Fprintf(&b, "%s %s - %s\n", typeIcon(r.Type), r.Type, util.FormatTime(r.Timestamp, true))
	}
	if hasMore {
		b.WriteString("\n📄 _Há mais registros disponíveis no banco de dados_")
	}
	return b.String()
}

// AllSchedules renders the whole staff's punches for managers.
func AllSchedules(records []model.CheckinRecord) string {
	if len(records) == 0 {
		return "📊 *Todos os Horários*\n\n_Nenhum registro no período._"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Todos os Horários (%d registros):*\n\n", len(records))
	for _, r := range records {
		name := "?"
		if r.User != nil {
			name = r.User.Name
		}
		fmt.Fprintf(&b, "%s %s - %s - %s\n", typeIcon(r.Type), name, r.Type.Label(), util.FormatTime(r.Timestamp, true))
	}
	return b.String()
}

// TeamActive lists employees whose last punch today is not a check-out.
func TeamActive(entries []TeamEntry) string {
	if len(entries) == 0 {
		return "👥 *Equipe Ativa*\n\n_Ninguém trabalhando no momento._"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "👥 *Equipe Ativa (%d):*\n\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&b, "%s %s - %s desde %s\n",
			typeIcon(e.LastType), e.Name, e.LastType.Label(), util.FormatTime(e.Since, false))
	}
	return b.String()
}

// TeamEntry is one row of the active-team display.
type TeamEntry struct {
	Name     string
	LastType model.CheckinType
	Since    time.Time
}

// SupervisorNotification is pushed to supervisors when a team member punches.
func SupervisorNotification(employeeName string, typ model.CheckinType, at time.Time) string {
	actions := map[model.CheckinType]string{
		model.CheckinIn:     "fez check-in",
		model.CheckinBreak:  "iniciou pausa",
		model.CheckinReturn: "retornou da pausa",
		model.CheckinOut:    "finalizou expediente",
	}
	action, ok := actions[typ]
	if !ok {
		action = string(typ)
	}
	return fmt.Sprintf("%s *Notificação da Equipe*\n\n"+
		"👤 %s %s\n"+
		"⏰ %s", typeIcon(typ), employeeName, action, util.FormatFull(at))
}

// ManualRecordAdded confirms an ADD command.
func ManualRecordAdded(userName string, typ model.CheckinType, ts time.Time) string {
	return fmt.Sprintf("✅ *Registro manual criado!*\n\n"+
		"👤 %s\n"+
		"📋 %s\n"+
		"⏰ %s", userName, typ.Label(), util.FormatFull(ts))
}

// RecordDeleted confirms a DEL command.
func RecordDeleted(recordID string) string {
	return fmt.Sprintf("🗑️ *Registro removido!*\n\nID: %s", recordID)
}

// RecordNotFound answers ADD/DEL/EDIT with an id that matches nothing.
func RecordNotFound() string {
	return "❌ Registro não encontrado. Verifique o ID e tente novamente."
}

// ManualCommandUsage answers a malformed ADD/DEL/EDIT command.
func ManualCommandUsage() string {
	return "❌ Formato inválido. Use:\n\n" +
		"ADD <usuário> <tipo 1-4> <2026-01-15T08:00:00-03:00>\n" +
		"DEL <registro>\n" +
		"EDIT <registro> <2026-01-15T08:00:00-03:00>"
}

// ReportReady confirms a generated PDF report.
func ReportReady(path string, from, to time.Time) string {
	return fmt.Sprintf("📄 *Relatório gerado!*\n\n"+
		"Período: %s a %s\n"+
		"Arquivo: %s", util.FormatTime(from, true), util.FormatTime(to, true), path)
}
