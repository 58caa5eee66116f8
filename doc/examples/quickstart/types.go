// Package quickstart provides example types for the declgen documentation.
package quickstart

// [snippet:wrapper-types]

// UserID identifies a user.
//
//declgen:wrapper kind=struct modifiers=readonly wrapper
//declgen:capability equality
//declgen:capability comparison
type UserID [16]byte

// Email is an address compared without regard to case.
//
//declgen:wrapper accessor=Address wrapper
//declgen:capability equality
//declgen:capability comparison?comparison=OrdinalIgnoreCase
type Email string

// Quantity counts items in an order.
//
//declgen:wrapper kind=struct modifiers=readonly namespace=Acme.Orders wrapper
//declgen:capability arithmetic
//declgen:capability formattable
type Quantity int32

// [/snippet:wrapper-types]
