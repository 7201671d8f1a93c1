package constants

const USER_AGENT = "profilelookup/1.0 (+https://github.com/Amund211/profilelookup)"
