package conversation

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"bookingbot/models"
	"bookingbot/services/availability"
)

const (
	msgGoodbye        = "Atendimento encerrado. 👋\nSe precisar de algo, estarei por aqui!"
	msgInvalidService = "Opção inválida. Digite o número do serviço ou 0 para sair."
	msgInvalidDay     = "Escolha um dia da lista ou digite 0 para sair."
	msgInvalidTime    = "Opção inválida. Escolha um horário da lista."
	msgDayFull        = "Poxa, esse dia já está totalmente preenchido. 😅\nPor favor, escolha outro dia da lista:"
	msgSlotTaken      = "Poxa, esse horário acabou de ser reservado. 😅\nPor favor, escolha outro:"
	msgSaveFailed     = "Erro ao salvar agendamento. Tente novamente."
	msgLookupFailed   = "Não consegui consultar a agenda agora. Tente novamente em instantes."
	msgNoServices     = "No momento não há serviços disponíveis para agendamento. Por favor, entre em contato diretamente com o estabelecimento."
	msgRestart        = "Não entendi. Vamos recomeçar? Qual é o seu nome?"
	menuExit          = "0. Sair"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// formatPrice renders 35 as "35,00".
func formatPrice(v float64) string {
	return ptBR.Sprintf("%.2f", v)
}

func welcomeMessage(tenant string) string {
	return fmt.Sprintf("Olá! Bem-vindo(a) à *%s*. ✨\nQual é o seu nome, por favor?\n\n_(Digite 0 para sair)_", tenant)
}

func serviceMenu(name string, services []models.Service) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Prazer, *%s*! O que vamos fazer hoje?\n\n", name)
	for i, s := range services {
		fmt.Fprintf(&b, "%d. %s (R$ %s)\n", i+1, s.Name, formatPrice(s.Price))
	}
	b.WriteString("\n" + menuExit)
	return b.String()
}

func dayList(days []models.DayOption) string {
	var b strings.Builder
	for i, d := range days {
		fmt.Fprintf(&b, "%d. %s\n", i+1, d.Label)
	}
	b.WriteString("\n" + menuExit)
	return b.String()
}

func dayMenu(days []models.DayOption) string {
	return "Para qual dia você deseja agendar?\n\n" + dayList(days)
}

func timeList(times []string) string {
	var b strings.Builder
	for i, t := range times {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t)
	}
	b.WriteString("\n" + menuExit)
	return b.String()
}

func timeMenu(dayLabel string, times []string) string {
	return fmt.Sprintf("Horários disponíveis para %s:\n\n", dayLabel) + timeList(times)
}

func confirmationMessage(service, stamp string) string {
	return fmt.Sprintf("✅ *Agendado com sucesso!*\n\n*Serviço:* %s\n*Horário:* %s\n\nTe esperamos! 👋", service, stamp)
}

// reminderMessage is the text delivered ahead of an appointment.
func reminderMessage(tenant, service string, cal *availability.Calendar, appt models.Appointment) string {
	stamp := availability.ShortStamp(appt.Start.In(cal.Location()))
	return fmt.Sprintf("⏰ Lembrete: *%s* em %s na *%s*. Até logo!", service, stamp, tenant)
}
