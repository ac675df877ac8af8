package sqlinline

const QSelectFirstUser = `--sql 8a12b4cb-56c7-4f9f-8711-18dbdeed42ae
select id, name, age, email
from users
order by id
limit 1;
`

const QInsertUserIfAbsent = `--sql 04106864-a504-4868-836f-35834e22119e
insert into users (name, age, email)
values ($1, $2, $3)
on conflict (email) do nothing;
`
