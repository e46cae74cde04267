// Package console is the text shell over the domain services. It only
// gathers input and renders rows; every rule lives below it.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jwalitptl/clinic-core/internal/model"
	"github.com/jwalitptl/clinic-core/internal/service/auth"
	"github.com/jwalitptl/clinic-core/internal/service/billing"
	"github.com/jwalitptl/clinic-core/internal/service/doctor"
	"github.com/jwalitptl/clinic-core/internal/service/medical"
	"github.com/jwalitptl/clinic-core/internal/service/patient"
	"github.com/jwalitptl/clinic-core/internal/service/scheduling"
	apperrors "github.com/jwalitptl/clinic-core/pkg/errors"
)

const maxLoginAttempts = 3

type Shell struct {
	auth       *auth.Service
	scheduling *scheduling.Service
	billing    *billing.Service
	patients   *patient.Service
	doctors    *doctor.Service
	medical    *medical.Service

	in      *bufio.Scanner
	out     io.Writer
	session *model.Session
}

func NewShell(authSvc *auth.Service, schedulingSvc *scheduling.Service,
	billingSvc *billing.Service, patientSvc *patient.Service,
	doctorSvc *doctor.Service, medicalSvc *medical.Service,
	in io.Reader, out io.Writer) *Shell {
	return &Shell{
		auth:       authSvc,
		scheduling: schedulingSvc,
		billing:    billingSvc,
		patients:   patientSvc,
		doctors:    doctorSvc,
		medical:    medicalSvc,
		in:         bufio.NewScanner(in),
		out:        out,
	}
}

// Run drives one login flow followed by the main menu until exit or EOF.
func (sh *Shell) Run(ctx context.Context) error {
	if !sh.login(ctx) {
		return fmt.Errorf("login failed")
	}
	defer sh.auth.Logout(sh.session.Token)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sh.printf("\n=== Clinic Operations (%s, %s) ===\n",
			sh.session.Account.FullName, sh.session.Role())
		sh.printf("1) Patients  2) Doctors  3) Appointments  4) Billing  5) Reports  6) Accounts  0) Exit\n")

		if !sh.auth.IsSessionValid(sh.session) {
			sh.printf("session expired, please log in again\n")
			return nil
		}

		switch sh.prompt("choice") {
		case "1":
			sh.patientMenu(ctx)
		case "2":
			sh.doctorMenu(ctx)
		case "3":
			sh.appointmentMenu(ctx)
		case "4":
			sh.billingMenu(ctx)
		case "5":
			sh.reportsMenu(ctx)
		case "6":
			sh.accountMenu(ctx)
		case "0", "":
			return nil
		}
	}
}

func (sh *Shell) login(ctx context.Context) bool {
	for attempt := 0; attempt < maxLoginAttempts; attempt++ {
		username := sh.prompt("username")
		password := sh.prompt("password")

		session, err := sh.auth.Authenticate(ctx, username, password)
		if err != nil {
			sh.printf("login failed: %v\n", err)
			continue
		}
		sh.session = session
		return true
	}
	return false
}

func (sh *Shell) patientMenu(ctx context.Context) {
	sh.printf("1) list  2) search  3) register  4) history  5) add record  6) delete\n")
	switch sh.prompt("choice") {
	case "1":
		patients, err := sh.patients.List(ctx)
		if sh.report(err) {
			return
		}
		for _, p := range patients {
			sh.printf("#%d %s (%s) born %s\n", p.ID, p.FullName(), p.NationalID, p.DateOfBirth)
		}
	case "2":
		patients, err := sh.patients.Search(ctx, sh.prompt("term"))
		if sh.report(err) {
			return
		}
		for _, p := range patients {
			sh.printf("#%d %s (%s)\n", p.ID, p.FullName(), p.NationalID)
		}
	case "3":
		req := &model.RegisterPatientRequest{
			NationalID:  sh.prompt("national id"),
			FirstName:   sh.prompt("first name"),
			LastName:    sh.prompt("last name"),
			DateOfBirth: sh.prompt("date of birth (YYYY-MM-DD)"),
			Gender:      sh.prompt("gender (male/female/other)"),
			Phone:       sh.prompt("phone"),
		}
		id, err := sh.patients.Register(ctx, req)
		if !sh.report(err) {
			sh.printf("registered patient #%d\n", id)
		}
	case "4":
		id := sh.promptID("patient id")
		records, err := sh.medical.History(ctx, id)
		if sh.report(err) {
			return
		}
		for _, r := range records {
			sh.printf("%s: %s / %s\n", r.VisitDate.Format("2006-01-02"), r.Symptoms, r.Diagnosis)
		}
	case "5":
		if !sh.require(model.RoleDoctor) {
			return
		}
		req := &model.AddRecordRequest{
			PatientID:    sh.promptID("patient id"),
			DoctorID:     sh.promptID("doctor id"),
			Symptoms:     sh.prompt("symptoms"),
			Diagnosis:    sh.prompt("diagnosis"),
			Prescription: sh.prompt("prescription"),
			FollowUpDate: sh.prompt("follow-up date (YYYY-MM-DD, blank for none)"),
		}
		id, err := sh.medical.AddRecord(ctx, req)
		if !sh.report(err) {
			sh.printf("added record #%d\n", id)
		}
	case "6":
		if !sh.require(model.RoleAdmin) {
			return
		}
		sh.report(sh.patients.Delete(ctx, sh.promptID("patient id")))
	}
}

func (sh *Shell) doctorMenu(ctx context.Context) {
	sh.printf("1) list  2) available  3) register  4) toggle availability\n")
	switch sh.prompt("choice") {
	case "1":
		doctors, err := sh.doctors.List(ctx)
		if sh.report(err) {
			return
		}
		for _, d := range doctors {
			sh.printf("#%d %s (%s) %s, fee %.2f, available=%t\n",
				d.ID, d.FullName(), d.EmployeeID, d.Specialization, d.ConsultationFee, d.IsAvailable)
		}
	case "2":
		doctors, err := sh.doctors.ListAvailable(ctx)
		if sh.report(err) {
			return
		}
		for _, d := range doctors {
			sh.printf("#%d %s - %s\n", d.ID, d.FullName(), d.Specialization)
		}
	case "3":
		if !sh.require(model.RoleAdmin) {
			return
		}
		req := &model.RegisterDoctorRequest{
			EmployeeID:      sh.prompt("employee id"),
			FirstName:       sh.prompt("first name"),
			LastName:        sh.prompt("last name"),
			Specialization:  sh.prompt("specialization"),
			ConsultationFee: sh.promptAmount("consultation fee"),
		}
		id, err := sh.doctors.Register(ctx, req)
		if !sh.report(err) {
			sh.printf("registered doctor #%d\n", id)
		}
	case "4":
		if !sh.require(model.RoleAdmin) {
			return
		}
		id := sh.promptID("doctor id")
		d, err := sh.doctors.Get(ctx, id)
		if sh.report(err) {
			return
		}
		sh.report(sh.doctors.SetAvailability(ctx, id, !d.IsAvailable))
	}
}

func (sh *Shell) appointmentMenu(ctx context.Context) {
	sh.printf("1) for date  2) recent  3) schedule  4) cancel  5) complete  6) no-show\n")
	switch sh.prompt("choice") {
	case "1":
		appts, err := sh.scheduling.ListForDate(ctx, sh.prompt("date (YYYY-MM-DD)"))
		if sh.report(err) {
			return
		}
		sh.renderAppointments(appts)
	case "2":
		appts, err := sh.scheduling.ListRecent(ctx, 20)
		if sh.report(err) {
			return
		}
		sh.renderAppointments(appts)
	case "3":
		req := &model.ScheduleRequest{
			PatientID: sh.promptID("patient id"),
			DoctorID:  sh.promptID("doctor id"),
			Date:      sh.prompt("date (YYYY-MM-DD)"),
			Time:      sh.prompt("time (HH:MM)"),
			Notes:     sh.prompt("notes"),
		}
		id, err := sh.scheduling.Schedule(ctx, req)
		if !sh.report(err) {
			sh.printf("scheduled appointment #%d\n", id)
		}
	case "4":
		sh.report(sh.scheduling.Cancel(ctx, sh.promptID("appointment id")))
	case "5":
		sh.report(sh.scheduling.Complete(ctx, sh.promptID("appointment id")))
	case "6":
		sh.report(sh.scheduling.MarkNoShow(ctx, sh.promptID("appointment id")))
	}
}

func (sh *Shell) billingMenu(ctx context.Context) {
	sh.printf("1) create bill  2) record payment  3) patient bills  4) overdue\n")
	switch sh.prompt("choice") {
	case "1":
		req := &model.CreateBillRequest{
			PatientID:   sh.promptID("patient id"),
			TotalAmount: sh.promptAmount("total amount"),
			DueDate:     sh.prompt("due date (YYYY-MM-DD, blank for none)"),
		}
		id, err := sh.billing.CreateBill(ctx, req)
		if !sh.report(err) {
			sh.printf("created bill #%d\n", id)
		}
	case "2":
		id := sh.promptID("bill id")
		amount := sh.promptAmount("amount")
		method := sh.prompt("method (cash/card/insurance)")
		sh.report(sh.billing.RecordPayment(ctx, id, amount, method))
	case "3":
		bills, err := sh.billing.ListForPatient(ctx, sh.promptID("patient id"))
		if sh.report(err) {
			return
		}
		sh.renderBills(bills)
	case "4":
		bills, err := sh.billing.ListOverdue(ctx)
		if sh.report(err) {
			return
		}
		sh.renderBills(bills)
	}
}

func (sh *Shell) reportsMenu(ctx context.Context) {
	if !sh.require(model.RoleStaff) {
		return
	}

	patients, err := sh.patients.Count(ctx)
	if sh.report(err) {
		return
	}
	doctors, err := sh.doctors.Count(ctx)
	if sh.report(err) {
		return
	}
	outstanding, err := sh.billing.OutstandingTotal(ctx)
	if sh.report(err) {
		return
	}
	revenue, err := sh.billing.TotalRevenue(ctx)
	if sh.report(err) {
		return
	}
	month, err := sh.billing.MonthRevenue(ctx)
	if sh.report(err) {
		return
	}
	pending, err := sh.billing.PendingCount(ctx)
	if sh.report(err) {
		return
	}

	sh.printf("patients: %d, doctors: %d\n", patients, doctors)
	sh.printf("revenue: %.2f (this month %.2f), outstanding: %.2f, pending bills: %d\n",
		revenue, month, outstanding, pending)
}

func (sh *Shell) accountMenu(ctx context.Context) {
	sh.printf("1) change password  2) create account  3) deactivate account  4) list accounts\n")
	switch sh.prompt("choice") {
	case "1":
		ok, err := sh.auth.ChangePassword(ctx, sh.session.Account.ID,
			sh.prompt("old password"), sh.prompt("new password"))
		if sh.report(err) {
			return
		}
		if !ok {
			sh.printf("old password does not match\n")
		}
	case "2":
		if !sh.require(model.RoleAdmin) {
			return
		}
		req := &model.CreateAccountRequest{
			Username: sh.prompt("username"),
			Password: sh.prompt("password"),
			Role:     sh.prompt("role (admin/doctor/nurse/staff/user)"),
			FullName: sh.prompt("full name"),
		}
		id, err := sh.auth.CreateAccount(ctx, req)
		if !sh.report(err) {
			sh.printf("created account #%d\n", id)
		}
	case "3":
		if !sh.require(model.RoleAdmin) {
			return
		}
		id := sh.promptID("account id")
		if id == sh.session.Account.ID {
			sh.printf("cannot deactivate the account you are logged in with\n")
			return
		}
		sh.report(sh.auth.DeactivateAccount(ctx, id))
	case "4":
		if !sh.require(model.RoleAdmin) {
			return
		}
		accounts, err := sh.auth.ListAccounts(ctx)
		if sh.report(err) {
			return
		}
		for _, a := range accounts {
			sh.printf("#%d %s (%s) active=%t\n", a.ID, a.Username, a.Role, a.IsActive)
		}
	}
}

func (sh *Shell) renderAppointments(appts []*model.AppointmentDetail) {
	for _, a := range appts {
		sh.printf("#%d %s %s  %s with %s  [%s]\n",
			a.ID, a.Date, a.Time, a.PatientName, a.DoctorName, a.Status)
	}
}

func (sh *Shell) renderBills(bills []*model.Bill) {
	for _, b := range bills {
		due := "-"
		if b.DueDate != nil {
			due = *b.DueDate
		}
		sh.printf("#%d patient %d: total %.2f paid %.2f [%s] due %s\n",
			b.ID, b.PatientID, b.TotalAmount, b.PaidAmount, b.PaymentStatus, due)
	}
}

func (sh *Shell) require(role model.Role) bool {
	if !sh.auth.HasPermission(sh.session, role) {
		sh.printf("requires %s access\n", role)
		return false
	}
	return true
}

// report prints err and returns whether there was one.
func (sh *Shell) report(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case apperrors.IsValidation(err):
		sh.printf("invalid input: %v\n", err)
	case apperrors.IsConflict(err):
		sh.printf("conflict: %v\n", err)
	case apperrors.IsNotFound(err):
		sh.printf("%v\n", err)
	default:
		sh.printf("error: %v\n", err)
	}
	return true
}

func (sh *Shell) prompt(label string) string {
	sh.printf("%s: ", label)
	if !sh.in.Scan() {
		return ""
	}
	return strings.TrimSpace(sh.in.Text())
}

func (sh *Shell) promptID(label string) int64 {
	id, _ := strconv.ParseInt(sh.prompt(label), 10, 64)
	return id
}

func (sh *Shell) promptAmount(label string) float64 {
	amount, _ := strconv.ParseFloat(sh.prompt(label), 64)
	return amount
}

func (sh *Shell) printf(format string, args ...interface{}) {
	fmt.Fprintf(sh.out, format, args...)
}
