package internal

// COOKIE_ACCESS_TOKEN_NAME is the securecookie name holding the encrypted
// access token for browser clients. API clients send a bearer token instead.
const COOKIE_ACCESS_TOKEN_NAME = "crowdfund_access_token"
