package handlers

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

// formRequest is a request body that can also arrive as a url-encoded form.
type formRequest interface {
	fromForm(values url.Values) error
}

// Credentials are sent with every form operation.
// @Description Customer id and password
type Credentials struct {
	Username string `json:"username" validate:"required,customer_id" example:"jdoe"`
	Password string `json:"password" validate:"required" example:"hunter2"`
}

func (c *Credentials) fromForm(values url.Values) error {
	c.Username = values.Get("username")
	c.Password = values.Get("password")
	return nil
}

// DepositRequest carries a dollar amount, e.g. "12.34".
type DepositRequest struct {
	Credentials
	AmountToDeposit decimal.Decimal `json:"amountToDeposit" swaggertype:"string" example:"100.00"`
}

func (d *DepositRequest) fromForm(values url.Values) error {
	if err := d.Credentials.fromForm(values); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(values.Get("amountToDeposit"))
	if err != nil {
		return fmt.Errorf("amountToDeposit: %w", err)
	}
	d.AmountToDeposit = amount
	return nil
}

type WithdrawRequest struct {
	Credentials
	AmountToWithdraw decimal.Decimal `json:"amountToWithdraw" swaggertype:"string" example:"25.50"`
}

func (wr *WithdrawRequest) fromForm(values url.Values) error {
	if err := wr.Credentials.fromForm(values); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(values.Get("amountToWithdraw"))
	if err != nil {
		return fmt.Errorf("amountToWithdraw: %w", err)
	}
	wr.AmountToWithdraw = amount
	return nil
}

// DisputeRequest names the transaction to reverse, 1 being the newest.
type DisputeRequest struct {
	Credentials
	NumTransactionsAgo int `json:"numTransactionsAgo" example:"1"`
}

func (d *DisputeRequest) fromForm(values url.Values) error {
	if err := d.Credentials.fromForm(values); err != nil {
		return err
	}
	n, err := strconv.Atoi(values.Get("numTransactionsAgo"))
	if err != nil {
		return fmt.Errorf("numTransactionsAgo: %w", err)
	}
	d.NumTransactionsAgo = n
	return nil
}
