package redis

import goredis "github.com/redis/go-redis/v9"

// Script results shared by the write scripts.
const (
	resultNotFound = 0
	resultOK       = 1
	resultConflict = 2
)

// createUserScript claims the username and writes the user hash.
//
// KEYS[1] username index, KEYS[2] user hash, KEYS[3] user id set
// ARGV[1] user id, ARGV[2..] field/value pairs
const createUserScript = `
if redis.call("EXISTS", KEYS[2]) == 1 then
  return 0
end
if redis.call("SETNX", KEYS[1], ARGV[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[2], unpack(ARGV, 2))
redis.call("SADD", KEYS[3], ARGV[1])
return 1
`

var createUserLua = goredis.NewScript(createUserScript)

// updateUserScript overwrites fields of an existing user and optionally
// revokes the refresh token in the same step.
//
// KEYS[1] user hash, KEYS[2] refresh expiry index
// ARGV[1] user id, ARGV[2] "1" to revoke the refresh token, ARGV[3..] field/value pairs
const updateUserScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1], unpack(ARGV, 3))
if ARGV[2] == "1" then
  redis.call("HDEL", KEYS[1], "refresh_token_hash", "refresh_token_expires_at")
  redis.call("ZREM", KEYS[2], ARGV[1])
end
return 1
`

var updateUserLua = goredis.NewScript(updateUserScript)

// setRefreshScript stores a refresh token unconditionally.
//
// KEYS[1] user hash, KEYS[2] refresh expiry index
// ARGV[1] user id, ARGV[2] fingerprint, ARGV[3] expiry ms, ARGV[4] updated ms
const setRefreshScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1],
  "refresh_token_hash", ARGV[2],
  "refresh_token_expires_at", ARGV[3],
  "updated_at", ARGV[4])
redis.call("ZADD", KEYS[2], ARGV[3], ARGV[1])
return 1
`

var setRefreshLua = goredis.NewScript(setRefreshScript)

// swapRefreshScript replaces the refresh token only while the stored one
// still matches and has not expired.
//
// KEYS[1] user hash, KEYS[2] refresh expiry index
// ARGV[1] user id, ARGV[2] current fingerprint, ARGV[3] next fingerprint,
// ARGV[4] next expiry ms, ARGV[5] now ms, ARGV[6] updated ms
const swapRefreshScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
local current = redis.call("HGET", KEYS[1], "refresh_token_hash")
local expires = redis.call("HGET", KEYS[1], "refresh_token_expires_at")
if not current or not expires or current ~= ARGV[2] then
  return 2
end
if tonumber(expires) <= tonumber(ARGV[5]) then
  return 2
end
redis.call("HSET", KEYS[1],
  "refresh_token_hash", ARGV[3],
  "refresh_token_expires_at", ARGV[4],
  "updated_at", ARGV[6])
redis.call("ZADD", KEYS[2], ARGV[4], ARGV[1])
return 1
`

var swapRefreshLua = goredis.NewScript(swapRefreshScript)

// clearIfExpiredScript revokes the refresh token when its expiry is at or
// before now. A token rotated after the index was read is left alone.
//
// KEYS[1] user hash, KEYS[2] refresh expiry index
// ARGV[1] user id, ARGV[2] now ms, ARGV[3] updated ms
const clearIfExpiredScript = `
local expires = redis.call("HGET", KEYS[1], "refresh_token_expires_at")
if not expires then
  redis.call("ZREM", KEYS[2], ARGV[1])
  return 0
end
if tonumber(expires) > tonumber(ARGV[2]) then
  return 0
end
redis.call("HDEL", KEYS[1], "refresh_token_hash", "refresh_token_expires_at")
redis.call("HSET", KEYS[1], "updated_at", ARGV[3])
redis.call("ZREM", KEYS[2], ARGV[1])
return 1
`

var clearIfExpiredLua = goredis.NewScript(clearIfExpiredScript)
